// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ids

import (
	"math"

	"github.com/bitcountry/tempo/lifecycle/reverts"
	"github.com/bitcountry/tempo/lifecycle/slots"
	"github.com/bitcountry/tempo/tempo"
)

// Allocator is a persistent monotonic id source for one namespace.
type Allocator struct {
	namespace string
	counter   *slots.Uint64
}

func New(sctx *slots.Context, namespace string) *Allocator {
	return &Allocator{
		namespace: namespace,
		counter:   slots.NewUint64(sctx, tempo.BytesToBytes32([]byte("ids-"+namespace))),
	}
}

// Next returns the current counter value and increments it.
// It fails with reverts.ErrExhausted once the counter reached max uint64, leaving it untouched.
func (a *Allocator) Next() (uint64, error) {
	id, err := a.counter.Get()
	if err != nil {
		return 0, err
	}
	if id == math.MaxUint64 {
		return 0, reverts.ErrExhausted.WithReason(a.namespace)
	}
	a.counter.Set(id + 1)
	return id, nil
}

// Peek returns the id the next call to Next would return.
func (a *Allocator) Peek() (uint64, error) {
	return a.counter.Get()
}

// Reset sets the counter. It's used by genesis and tests only.
func (a *Allocator) Reset(next uint64) {
	a.counter.Set(next)
}
