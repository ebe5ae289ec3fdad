// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lifecycle

import (
	"github.com/bitcountry/tempo/tempo"
)

// currencyJournal records performed currency operations so that they can be
// undone when a later step of the same operation fails.
type currencyJournal struct {
	currency Currency
	undo     []func() error
}

func (j *currencyJournal) Reserve(account tempo.Address, amount uint64) error {
	if err := j.currency.Reserve(account, amount); err != nil {
		return err
	}
	j.undo = append(j.undo, func() error { return j.currency.Release(account, amount) })
	return nil
}

func (j *currencyJournal) Release(account tempo.Address, amount uint64) error {
	if err := j.currency.Release(account, amount); err != nil {
		return err
	}
	j.undo = append(j.undo, func() error { return j.currency.Reserve(account, amount) })
	return nil
}

func (j *currencyJournal) Transfer(from, to tempo.Address, amount uint64) error {
	if err := j.currency.Transfer(from, to, amount); err != nil {
		return err
	}
	j.undo = append(j.undo, func() error { return j.currency.Transfer(to, from, amount) })
	return nil
}

// compensate undoes the recorded operations in reverse order.
func (j *currencyJournal) compensate() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		if err := j.undo[i](); err != nil {
			logger.Error("failed to compensate currency operation", "err", err)
		}
	}
	j.undo = nil
}
