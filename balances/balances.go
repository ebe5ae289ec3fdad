// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package balances is a currency kept in the state, with free and reserved funds per account.
package balances

import (
	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/lifecycle/reverts"
	"github.com/bitcountry/tempo/lifecycle/slots"
	"github.com/bitcountry/tempo/log"
	"github.com/bitcountry/tempo/state"
	"github.com/bitcountry/tempo/tempo"
)

var (
	logger = log.WithContext("pkg", "balances")

	slotAccounts = tempo.BytesToBytes32([]byte("balances-accounts"))
	slotIssuance = tempo.BytesToBytes32([]byte("balances-issuance"))
)

// Account holds the funds of an account.
type Account struct {
	Free     uint64
	Reserved uint64
}

// Total returns free plus reserved funds.
func (a *Account) Total() uint64 {
	return a.Free + a.Reserved
}

func (a *Account) isEmpty() bool {
	return a.Free == 0 && a.Reserved == 0
}

// Balances implements the currency of the engine over a state.
type Balances struct {
	accounts *slots.Mapping[tempo.Address, *Account]
	issuance *slots.Uint64
}

func New(st *state.State) *Balances {
	sctx := slots.NewContext(tempo.BalancesSpace, st)
	return &Balances{
		accounts: slots.NewMapping[tempo.Address, *Account](sctx, slotAccounts),
		issuance: slots.NewUint64(sctx, slotIssuance),
	}
}

// Get returns the funds of account, empty if none.
func (b *Balances) Get(account tempo.Address) (*Account, error) {
	acc, err := b.accounts.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	if acc == nil {
		return &Account{}, nil
	}
	return acc, nil
}

// TotalIssuance returns the sum of all minted funds.
func (b *Balances) TotalIssuance() (uint64, error) {
	return b.issuance.Get()
}

func (b *Balances) set(account tempo.Address, acc *Account) error {
	if acc.isEmpty() {
		b.accounts.Delete(account)
		return nil
	}
	if err := b.accounts.Set(account, acc); err != nil {
		return errors.Wrap(err, "failed to set account")
	}
	return nil
}

// Mint credits new free funds to account.
func (b *Balances) Mint(account tempo.Address, amount uint64) error {
	acc, err := b.Get(account)
	if err != nil {
		return err
	}
	issuance, err := b.issuance.Get()
	if err != nil {
		return err
	}
	if _, ok := tempo.SafeAdd(issuance, amount); !ok {
		return reverts.ErrAmountOverflow
	}
	free, ok := tempo.SafeAdd(acc.Free, amount)
	if !ok {
		return reverts.ErrAmountOverflow
	}
	if _, ok := tempo.SafeAdd(free, acc.Reserved); !ok {
		return reverts.ErrAmountOverflow
	}
	acc.Free = free
	if err := b.set(account, acc); err != nil {
		return err
	}
	logger.Debug("minted", "account", account, "amount", amount)
	return b.issuance.Add(amount)
}

// Reserve moves amount of account from free to reserved.
func (b *Balances) Reserve(account tempo.Address, amount uint64) error {
	acc, err := b.Get(account)
	if err != nil {
		return err
	}
	if acc.Free < amount {
		return reverts.ErrInsufficientFunds
	}
	acc.Free -= amount
	acc.Reserved += amount
	return b.set(account, acc)
}

// Release moves amount of account from reserved back to free.
func (b *Balances) Release(account tempo.Address, amount uint64) error {
	acc, err := b.Get(account)
	if err != nil {
		return err
	}
	if acc.Reserved < amount {
		return reverts.ErrInsufficientFunds.WithReason("reserved")
	}
	acc.Reserved -= amount
	acc.Free += amount
	return b.set(account, acc)
}

// Transfer moves free funds between accounts.
func (b *Balances) Transfer(from, to tempo.Address, amount uint64) error {
	src, err := b.Get(from)
	if err != nil {
		return err
	}
	if src.Free < amount {
		return reverts.ErrInsufficientFunds
	}
	if from == to || amount == 0 {
		return nil
	}
	dst, err := b.Get(to)
	if err != nil {
		return err
	}
	// totals are bounded by the issuance
	src.Free -= amount
	dst.Free += amount

	if err := b.set(from, src); err != nil {
		return err
	}
	return b.set(to, dst)
}
