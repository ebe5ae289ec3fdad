// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"encoding/binary"

	"github.com/bitcountry/tempo/tempo"
)

// Uint64 is a single uint64 stored at pos.
type Uint64 struct {
	context *Context
	pos     tempo.Bytes32
}

func NewUint64(context *Context, pos tempo.Bytes32) *Uint64 {
	return &Uint64{context: context, pos: pos}
}

func (u *Uint64) Get() (uint64, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(storage[24:]), nil
}

func (u *Uint64) Set(value uint64) {
	var storage tempo.Bytes32
	binary.BigEndian.PutUint64(storage[24:], value)
	u.context.state.SetStorage(u.context.address, u.pos, storage)
}

// Add increases the stored value, failing on overflow.
func (u *Uint64) Add(delta uint64) error {
	v, err := u.Get()
	if err != nil {
		return err
	}
	sum, ok := tempo.SafeAdd(v, delta)
	if !ok {
		return errOverflow
	}
	u.Set(sum)
	return nil
}

// Sub decreases the stored value, failing on underflow.
func (u *Uint64) Sub(delta uint64) error {
	v, err := u.Get()
	if err != nil {
		return err
	}
	diff, ok := tempo.SafeSub(v, delta)
	if !ok {
		return errUnderflow
	}
	u.Set(diff)
	return nil
}

// Address is a single address stored at pos.
type Address struct {
	context *Context
	pos     tempo.Bytes32
}

func NewAddress(context *Context, pos tempo.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (tempo.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return tempo.Address{}, err
	}
	return tempo.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr tempo.Address) {
	a.context.state.SetStorage(a.context.address, a.pos, tempo.BytesToBytes32(addr.Bytes()))
}
