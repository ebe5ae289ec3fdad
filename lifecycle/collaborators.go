// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lifecycle

import (
	"github.com/bitcountry/tempo/lifecycle/reverts"
	"github.com/bitcountry/tempo/tempo"
)

// Clock provides the current block height.
type Clock interface {
	CurrentHeight() uint32
}

// ClockFunc adapts a func to Clock.
type ClockFunc func() uint32

func (f ClockFunc) CurrentHeight() uint32 { return f() }

// Origin describes the caller of an operation.
type Origin struct {
	Account tempo.Address
	Signed  bool
}

// Signed returns the origin of a signed call by account.
func Signed(account tempo.Address) Origin {
	return Origin{Account: account, Signed: true}
}

// OriginResolver maps an origin to an authenticated account.
type OriginResolver interface {
	Resolve(origin Origin) (tempo.Address, error)
}

// SignedResolver accepts signed origins with a non zero account.
type SignedResolver struct{}

func (SignedResolver) Resolve(origin Origin) (tempo.Address, error) {
	if !origin.Signed || origin.Account.IsZero() {
		return tempo.Address{}, reverts.ErrUnauthorized
	}
	return origin.Account, nil
}

// Currency moves funds. Each method fails with reverts.ErrInsufficientFunds when
// the source lacks funds, and is considered committed only on success.
type Currency interface {
	// Reserve moves amount of account from free to reserved.
	Reserve(account tempo.Address, amount uint64) error
	// Release moves amount of account from reserved back to free.
	Release(account tempo.Address, amount uint64) error
	// Transfer moves free funds between accounts.
	Transfer(from, to tempo.Address, amount uint64) error
}
