// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"encoding/binary"

	"github.com/bitcountry/tempo/tempo"
)

type Key interface {
	Bytes() []byte
}

// Uint64Key is a big endian encoded integer key.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// Uint32Key is a big endian encoded integer key, used for heights.
type Uint32Key uint32

func (k Uint32Key) Bytes() []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(k))
}

// PairKey composes an entity id with an account.
type PairKey struct {
	ID      uint64
	Account tempo.Address
}

func (k PairKey) Bytes() []byte {
	b := binary.BigEndian.AppendUint64(make([]byte, 0, 8+tempo.AddressLength), k.ID)
	return append(b, k.Account[:]...)
}

// Derive computes a storage position scoped to the given key.
func Derive(key Key, base tempo.Bytes32) tempo.Bytes32 {
	return tempo.Blake2b(key.Bytes(), base.Bytes())
}
