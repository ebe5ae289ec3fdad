// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/lifecycle/slots"
	"github.com/bitcountry/tempo/tempo"
)

var (
	slotHead  = tempo.BytesToBytes32([]byte("list-head"))
	slotTail  = tempo.BytesToBytes32([]byte("list-tail"))
	slotCount = tempo.BytesToBytes32([]byte("list-count"))
	slotNext  = tempo.BytesToBytes32([]byte("list-next"))
	slotPrev  = tempo.BytesToBytes32([]byte("list-prev"))
)

// LinkedList is a persistent doubly linked list of accounts.
// Zero address marks the absence of a node and can not be stored.
type LinkedList struct {
	head  *slots.Address
	tail  *slots.Address
	count *slots.Uint64
	next  *slots.Mapping[tempo.Address, tempo.Address]
	prev  *slots.Mapping[tempo.Address, tempo.Address]
}

// New creates a list whose storage positions are all derived from scope,
// so that many lists can coexist in one context.
func New(sctx *slots.Context, scope slots.Key) *LinkedList {
	return &LinkedList{
		head:  slots.NewAddress(sctx, slots.Derive(scope, slotHead)),
		tail:  slots.NewAddress(sctx, slots.Derive(scope, slotTail)),
		count: slots.NewUint64(sctx, slots.Derive(scope, slotCount)),
		next:  slots.NewMapping[tempo.Address, tempo.Address](sctx, slots.Derive(scope, slotNext)),
		prev:  slots.NewMapping[tempo.Address, tempo.Address](sctx, slots.Derive(scope, slotPrev)),
	}
}

// Add appends an address to the end of the list.
func (l *LinkedList) Add(address tempo.Address) error {
	if address.IsZero() {
		return errors.New("zero address")
	}
	oldTail, err := l.tail.Get()
	if err != nil {
		return err
	}

	if oldTail.IsZero() {
		// the list is currently empty, set this entry to head & tail
		l.head.Set(address)
		l.tail.Set(address)
		return l.count.Add(1)
	}

	if err := l.next.Set(oldTail, address); err != nil {
		return err
	}
	if err := l.prev.Set(address, oldTail); err != nil {
		return err
	}
	l.tail.Set(address)

	return l.count.Add(1)
}

// Remove extracts an address from anywhere in the list. It's a no-op if the address is not listed.
func (l *LinkedList) Remove(address tempo.Address) error {
	if address.IsZero() {
		return nil
	}

	prev, err := l.prev.Get(address)
	if err != nil {
		return err
	}
	next, err := l.next.Get(address)
	if err != nil {
		return err
	}

	head, err := l.head.Get()
	if err != nil {
		return err
	}
	if prev.IsZero() && head != address {
		return nil // not in list
	}

	if prev.IsZero() {
		l.head.Set(next)
	} else if next.IsZero() {
		l.next.Delete(prev)
	} else if err := l.next.Set(prev, next); err != nil {
		return err
	}

	if next.IsZero() {
		l.tail.Set(prev)
	} else if prev.IsZero() {
		l.prev.Delete(next)
	} else if err := l.prev.Set(next, prev); err != nil {
		return err
	}

	l.next.Delete(address)
	l.prev.Delete(address)

	return l.count.Sub(1)
}

// Head returns the oldest address, zero if the list is empty.
func (l *LinkedList) Head() (tempo.Address, error) {
	return l.head.Get()
}

// Next returns the successor address in the list, or zero address if at the end.
func (l *LinkedList) Next(address tempo.Address) (tempo.Address, error) {
	return l.next.Get(address)
}

// Len returns the current number of addresses.
func (l *LinkedList) Len() (uint64, error) {
	return l.count.Get()
}

// Iter traverses the list in insertion order, calling callback for each address until completion or error.
func (l *LinkedList) Iter(callback func(tempo.Address) error) error {
	ptr, err := l.head.Get()
	if err != nil {
		return err
	}

	for !ptr.IsZero() {
		// fetch next first, so that callback may remove ptr
		next, err := l.next.Get(ptr)
		if err != nil {
			return err
		}
		if err := callback(ptr); err != nil {
			return err
		}
		ptr = next
	}
	return nil
}
