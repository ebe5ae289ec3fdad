// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package expiry

import (
	"encoding/binary"
	"fmt"
)

// Kind tells which registry an entry belongs to.
type Kind uint8

const (
	KindPool Kind = iota + 1
	KindAuction
)

func (k Kind) String() string {
	switch k {
	case KindPool:
		return "pool"
	case KindAuction:
		return "auction"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entry identifies a scheduled entity.
type Entry struct {
	Kind Kind
	ID   uint64
}

func PoolEntry(id uint64) Entry {
	return Entry{KindPool, id}
}

func AuctionEntry(id uint64) Entry {
	return Entry{KindAuction, id}
}

// Bytes implements slots.Key.
func (e Entry) Bytes() []byte {
	return binary.BigEndian.AppendUint64([]byte{byte(e.Kind)}, e.ID)
}

func (e Entry) String() string {
	return fmt.Sprintf("%v#%d", e.Kind, e.ID)
}
