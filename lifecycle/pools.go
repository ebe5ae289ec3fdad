// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lifecycle

import (
	"github.com/bitcountry/tempo/lifecycle/event"
	"github.com/bitcountry/tempo/lifecycle/expiry"
	"github.com/bitcountry/tempo/lifecycle/registry"
	"github.com/bitcountry/tempo/lifecycle/reverts"
	"github.com/bitcountry/tempo/tempo"
)

// PoolParams are the caller supplied parameters of a new pool.
type PoolParams struct {
	Name        string
	Country     uint64
	StartHeight uint32
	EndHeight   uint32
	RewardRate  tempo.Rate // zero means Config.DefaultRewardRate
}

// CreatePool registers a pool and schedules its finalization at the end height.
func (e *Engine) CreatePool(origin Origin, params PoolParams) (uint64, error) {
	creator, err := e.deps.Resolver.Resolve(origin)
	if err != nil {
		return 0, err
	}
	now := e.now()
	rate := params.RewardRate
	if rate == 0 {
		rate = e.cfg.DefaultRewardRate
	}

	var id uint64
	err = e.atomic(func(*currencyJournal) error {
		id, err = e.registry.CreatePool(now, registry.PoolParams{
			Name:        params.Name,
			Creator:     creator,
			Country:     params.Country,
			StartHeight: params.StartHeight,
			EndHeight:   params.EndHeight,
			RewardRate:  rate,
		})
		if err != nil {
			return err
		}
		if err := e.schedule(params.EndHeight, expiry.PoolEntry(id)); err != nil {
			return err
		}
		e.events.Emit(event.PoolCreated{
			Pool:        id,
			Creator:     creator,
			Country:     params.Country,
			Name:        params.Name,
			StartHeight: params.StartHeight,
			EndHeight:   params.EndHeight,
			RewardRate:  rate,
		})
		return nil
	})
	if err != nil {
		logger.Debug("create pool failed", "creator", creator, "name", params.Name, "err", err)
		return 0, err
	}
	e.flush()

	logger.Debug("pool created", "id", id, "creator", creator, "start", params.StartHeight, "end", params.EndHeight, "rate", rate)
	return id, nil
}

// activePool returns the pool if it accepts stake at height now.
func (e *Engine) activePool(id uint64, now uint32) (*registry.Pool, error) {
	pool, err := e.registry.GetPool(id)
	if err != nil {
		return nil, err
	}
	if !pool.IsActive() {
		return nil, reverts.ErrNotActive
	}
	if !pool.Started(now) {
		return nil, reverts.ErrNotStarted
	}
	return pool, nil
}

// Stake reserves amount of the caller and records it in the pool.
func (e *Engine) Stake(origin Origin, pool uint64, amount uint64) error {
	account, err := e.deps.Resolver.Resolve(origin)
	if err != nil {
		return err
	}
	if amount == 0 {
		return reverts.ErrZeroAmount
	}
	if _, err := e.activePool(pool, e.now()); err != nil {
		return err
	}

	err = e.atomic(func(j *currencyJournal) error {
		if err := j.Reserve(account, amount); err != nil {
			return err
		}
		if err := e.ledger.Stake(pool, account, amount); err != nil {
			return err
		}
		e.events.Emit(event.Staked{Pool: pool, Staker: account, Amount: amount})
		return nil
	})
	if err != nil {
		logger.Debug("stake failed", "pool", pool, "account", account, "amount", amount, "err", err)
		return err
	}
	e.flush()

	logger.Debug("staked", "pool", pool, "account", account, "amount", amount)
	return nil
}

// Unstake removes amount from the caller's stake and releases the funds.
func (e *Engine) Unstake(origin Origin, pool uint64, amount uint64) error {
	account, err := e.deps.Resolver.Resolve(origin)
	if err != nil {
		return err
	}
	if amount == 0 {
		return reverts.ErrZeroAmount
	}
	p, err := e.registry.GetPool(pool)
	if err != nil {
		return err
	}
	if e.cfg.LockedUntilFinalize && p.IsActive() {
		return reverts.ErrLockedUntilFinalize
	}

	err = e.atomic(func(j *currencyJournal) error {
		if err := e.ledger.Unstake(pool, account, amount); err != nil {
			return err
		}
		if err := j.Release(account, amount); err != nil {
			return err
		}
		e.events.Emit(event.Unstaked{Pool: pool, Staker: account, Amount: amount})
		return nil
	})
	if err != nil {
		logger.Debug("unstake failed", "pool", pool, "account", account, "amount", amount, "err", err)
		return err
	}
	e.flush()

	logger.Debug("unstaked", "pool", pool, "account", account, "amount", amount)
	return nil
}

// Claim pays the accrued reward of the caller from the treasury.
func (e *Engine) Claim(origin Origin, pool uint64) (uint64, error) {
	account, err := e.deps.Resolver.Resolve(origin)
	if err != nil {
		return 0, err
	}
	if _, err := e.registry.GetPool(pool); err != nil {
		return 0, err
	}

	var amount uint64
	err = e.atomic(func(j *currencyJournal) error {
		if amount, err = e.ledger.Claim(pool, account); err != nil {
			return err
		}
		if err := j.Transfer(e.cfg.Treasury, account, amount); err != nil {
			return err
		}
		e.events.Emit(event.Claimed{Pool: pool, Staker: account, Amount: amount})
		return nil
	})
	if err != nil {
		logger.Debug("claim failed", "pool", pool, "account", account, "err", err)
		return 0, err
	}
	e.flush()

	logger.Debug("claimed", "pool", pool, "account", account, "amount", amount)
	return amount, nil
}
