// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/lifecycle/linkedlist"
	"github.com/bitcountry/tempo/lifecycle/reverts"
	"github.com/bitcountry/tempo/lifecycle/slots"
	"github.com/bitcountry/tempo/tempo"
)

var (
	slotPositions   = tempo.BytesToBytes32([]byte("ledger-positions"))
	slotTotals      = tempo.BytesToBytes32([]byte("ledger-totals"))
	slotTotalStaked = tempo.BytesToBytes32([]byte("ledger-total-staked"))
)

// Service keeps the staking positions and reward accounting.
// For every pool the sum of staked amounts over its stakers equals Totals.Staked.
type Service struct {
	sctx        *slots.Context
	positions   *slots.Mapping[slots.PairKey, *Position]
	totals      *slots.Mapping[slots.Uint64Key, *Totals]
	totalStaked *slots.Uint64
}

func New(sctx *slots.Context) *Service {
	return &Service{
		sctx:        sctx,
		positions:   slots.NewMapping[slots.PairKey, *Position](sctx, slotPositions),
		totals:      slots.NewMapping[slots.Uint64Key, *Totals](sctx, slotTotals),
		totalStaked: slots.NewUint64(sctx, slotTotalStaked),
	}
}

func (s *Service) stakers(pool uint64) *linkedlist.LinkedList {
	return linkedlist.New(s.sctx, slots.Uint64Key(pool))
}

//
// Getters - no state change
//

// Position returns the position of account in pool, empty if none.
func (s *Service) Position(pool uint64, account tempo.Address) (*Position, error) {
	pos, err := s.positions.Get(slots.PairKey{ID: pool, Account: account})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	if pos == nil {
		return &Position{}, nil
	}
	return pos, nil
}

// Totals returns the aggregates of pool, empty if nothing was staked.
func (s *Service) Totals(pool uint64) (*Totals, error) {
	totals, err := s.totals.Get(slots.Uint64Key(pool))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get totals")
	}
	if totals == nil {
		return &Totals{}, nil
	}
	return totals, nil
}

// TotalStaked returns the amount staked across all pools.
func (s *Service) TotalStaked() (uint64, error) {
	return s.totalStaked.Get()
}

// StakerCount returns the number of accounts holding a position in pool.
func (s *Service) StakerCount(pool uint64) (uint64, error) {
	return s.stakers(pool).Len()
}

// IterStakers visits every account with a position in pool, in order of first stake.
func (s *Service) IterStakers(pool uint64, callback func(tempo.Address, *Position) error) error {
	return s.stakers(pool).Iter(func(account tempo.Address) error {
		pos, err := s.Position(pool, account)
		if err != nil {
			return err
		}
		return callback(account, pos)
	})
}

//
// Mutations
//

// Stake records amount for account. The caller reserves the funds beforehand.
func (s *Service) Stake(pool uint64, account tempo.Address, amount uint64) error {
	if amount == 0 {
		return reverts.ErrZeroAmount
	}
	totals, err := s.Totals(pool)
	if err != nil {
		return err
	}
	if totals.Accrued {
		return reverts.ErrNotActive
	}
	pos, err := s.Position(pool, account)
	if err != nil {
		return err
	}

	staked, ok := tempo.SafeAdd(pos.Staked, amount)
	if !ok {
		return reverts.ErrAmountOverflow
	}
	total, ok := tempo.SafeAdd(totals.Staked, amount)
	if !ok {
		return reverts.ErrAmountOverflow
	}
	global, err := s.totalStaked.Get()
	if err != nil {
		return err
	}
	if _, ok := tempo.SafeAdd(global, amount); !ok {
		return reverts.ErrAmountOverflow
	}

	if pos.IsEmpty() {
		if err := s.stakers(pool).Add(account); err != nil {
			return errors.Wrap(err, "failed to add staker")
		}
	}
	pos.Staked = staked
	totals.Staked = total

	if err := s.setPosition(pool, account, pos); err != nil {
		return err
	}
	if err := s.setTotals(pool, totals); err != nil {
		return err
	}
	return s.totalStaked.Add(amount)
}

// Unstake decreases the stake of account. The caller releases the funds afterwards.
func (s *Service) Unstake(pool uint64, account tempo.Address, amount uint64) error {
	if amount == 0 {
		return reverts.ErrZeroAmount
	}
	pos, err := s.Position(pool, account)
	if err != nil {
		return err
	}
	if amount > pos.Staked {
		return reverts.ErrInsufficientStake
	}
	totals, err := s.Totals(pool)
	if err != nil {
		return err
	}
	if totals.Staked < amount {
		return errors.Errorf("pool %d total %d less than position %d", pool, totals.Staked, pos.Staked)
	}

	pos.Staked -= amount
	totals.Staked -= amount

	if err := s.setPosition(pool, account, pos); err != nil {
		return err
	}
	if err := s.setTotals(pool, totals); err != nil {
		return err
	}
	return s.totalStaked.Sub(amount)
}

// AccrueReward credits floor(staked × rate) to every staker of pool. It runs once per pool,
// the rounding remainder of the budget stays undistributed.
func (s *Service) AccrueReward(pool uint64, rate tempo.Rate) (*Accrual, error) {
	totals, err := s.Totals(pool)
	if err != nil {
		return nil, err
	}
	if totals.Accrued {
		return nil, reverts.ErrAlreadyAccrued
	}
	if !rate.Valid() {
		return nil, reverts.ErrInvalidRate
	}
	budget, ok := rate.Apply(totals.Staked)
	if !ok {
		return nil, reverts.ErrAmountOverflow
	}

	accrual := &Accrual{Pool: pool, Budget: budget}
	err = s.IterStakers(pool, func(account tempo.Address, pos *Position) error {
		reward, ok := rate.Apply(pos.Staked)
		if !ok {
			return reverts.ErrAmountOverflow
		}
		accrual.Stakers++
		if reward == 0 {
			return nil
		}
		if accrual.Distributed, ok = tempo.SafeAdd(accrual.Distributed, reward); !ok {
			return reverts.ErrAmountOverflow
		}
		if pos.Accrued, ok = tempo.SafeAdd(pos.Accrued, reward); !ok {
			return reverts.ErrAmountOverflow
		}
		return s.setPosition(pool, account, pos)
	})
	if err != nil {
		return nil, err
	}
	if accrual.Distributed > budget {
		return nil, reverts.ErrBudgetExceeded
	}
	accrual.Undistributed = budget - accrual.Distributed

	totals.Accrued = true
	totals.Budget = budget
	totals.Distributed = accrual.Distributed
	totals.Undistributed = accrual.Undistributed
	if err := s.setTotals(pool, totals); err != nil {
		return nil, err
	}
	return accrual, nil
}

// Claim zeroes the accrued reward of account and returns the amount to pay.
func (s *Service) Claim(pool uint64, account tempo.Address) (uint64, error) {
	pos, err := s.Position(pool, account)
	if err != nil {
		return 0, err
	}
	if pos.Accrued == 0 {
		return 0, reverts.ErrNothingToClaim
	}
	totals, err := s.Totals(pool)
	if err != nil {
		return 0, err
	}

	amount := pos.Accrued
	pos.Accrued = 0
	totals.Claimed += amount

	if err := s.setPosition(pool, account, pos); err != nil {
		return 0, err
	}
	if err := s.setTotals(pool, totals); err != nil {
		return 0, err
	}
	return amount, nil
}

// setPosition stores pos, dropping the account from the stakers once the position is empty.
func (s *Service) setPosition(pool uint64, account tempo.Address, pos *Position) error {
	key := slots.PairKey{ID: pool, Account: account}
	if pos.IsEmpty() {
		s.positions.Delete(key)
		if err := s.stakers(pool).Remove(account); err != nil {
			return errors.Wrap(err, "failed to remove staker")
		}
		return nil
	}
	if err := s.positions.Set(key, pos); err != nil {
		return errors.Wrap(err, "failed to set position")
	}
	return nil
}

func (s *Service) setTotals(pool uint64, totals *Totals) error {
	if err := s.totals.Set(slots.Uint64Key(pool), totals); err != nil {
		return errors.Wrap(err, "failed to set totals")
	}
	return nil
}
