// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcountry/tempo/lifecycle/slots"
	"github.com/bitcountry/tempo/lvldb"
	"github.com/bitcountry/tempo/state"
	"github.com/bitcountry/tempo/tempo"
)

func newList(t *testing.T, scope uint64) (*slots.Context, *LinkedList) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sctx := slots.NewContext(tempo.BytesToAddress([]byte("list")), state.New(db))
	return sctx, New(sctx, slots.Uint64Key(scope))
}

func collect(t *testing.T, l *LinkedList) []tempo.Address {
	var out []tempo.Address
	require.NoError(t, l.Iter(func(a tempo.Address) error {
		out = append(out, a)
		return nil
	}))
	return out
}

func addr(s string) tempo.Address {
	return tempo.BytesToAddress([]byte(s))
}

func TestLinkedList(t *testing.T) {
	_, l := newList(t, 1)
	a, b, c := addr("a"), addr("b"), addr("c")

	assert.Empty(t, collect(t, l))
	for _, x := range []tempo.Address{a, b, c} {
		require.NoError(t, l.Add(x))
	}
	assert.Equal(t, []tempo.Address{a, b, c}, collect(t, l))
	n, _ := l.Len()
	assert.Equal(t, uint64(3), n)

	// middle
	require.NoError(t, l.Remove(b))
	assert.Equal(t, []tempo.Address{a, c}, collect(t, l))

	// not listed
	require.NoError(t, l.Remove(b))
	require.NoError(t, l.Remove(addr("x")))
	n, _ = l.Len()
	assert.Equal(t, uint64(2), n)

	// head
	require.NoError(t, l.Remove(a))
	assert.Equal(t, []tempo.Address{c}, collect(t, l))
	head, _ := l.Head()
	assert.Equal(t, c, head)

	// tail and last
	require.NoError(t, l.Remove(c))
	assert.Empty(t, collect(t, l))
	n, _ = l.Len()
	assert.Zero(t, n)

	// reuse after empty
	require.NoError(t, l.Add(b))
	require.NoError(t, l.Add(a))
	assert.Equal(t, []tempo.Address{b, a}, collect(t, l))
}

func TestLinkedListRemoveTail(t *testing.T) {
	_, l := newList(t, 1)
	a, b := addr("a"), addr("b")
	require.NoError(t, l.Add(a))
	require.NoError(t, l.Add(b))
	require.NoError(t, l.Remove(b))
	assert.Equal(t, []tempo.Address{a}, collect(t, l))

	require.NoError(t, l.Add(b))
	assert.Equal(t, []tempo.Address{a, b}, collect(t, l))
}

func TestLinkedListRemoveDuringIter(t *testing.T) {
	_, l := newList(t, 1)
	a, b, c := addr("a"), addr("b"), addr("c")
	for _, x := range []tempo.Address{a, b, c} {
		require.NoError(t, l.Add(x))
	}
	var seen []tempo.Address
	require.NoError(t, l.Iter(func(x tempo.Address) error {
		seen = append(seen, x)
		return l.Remove(x)
	}))
	assert.Equal(t, []tempo.Address{a, b, c}, seen)
	assert.Empty(t, collect(t, l))
}

func TestLinkedListScopes(t *testing.T) {
	sctx, l1 := newList(t, 1)
	l2 := New(sctx, slots.Uint64Key(2))

	require.NoError(t, l1.Add(addr("a")))
	require.NoError(t, l2.Add(addr("b")))

	assert.Equal(t, []tempo.Address{addr("a")}, collect(t, l1))
	assert.Equal(t, []tempo.Address{addr("b")}, collect(t, l2))
}

func TestLinkedListZeroAddress(t *testing.T) {
	_, l := newList(t, 1)
	assert.Error(t, l.Add(tempo.Address{}))
}
