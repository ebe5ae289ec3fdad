// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcountry/tempo/lvldb"
	"github.com/bitcountry/tempo/state"
	"github.com/bitcountry/tempo/tempo"
)

type record struct {
	Name  string
	Value uint64
}

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(tempo.BytesToAddress([]byte("slots")), state.New(db))
}

func TestMapping(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[Uint64Key, *record](ctx, tempo.BytesToBytes32([]byte("records")))

	got, err := m.Get(1)
	assert.NoError(t, err)
	assert.Nil(t, got)

	exists, err := m.Exists(1)
	assert.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, m.Set(1, &record{"a", 10}))
	got, err = m.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, &record{"a", 10}, got)

	exists, _ = m.Exists(1)
	assert.True(t, exists)

	m.Delete(1)
	got, err = m.Get(1)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestMappingBasePositions(t *testing.T) {
	ctx := newContext(t)
	a := NewMapping[Uint64Key, uint64](ctx, tempo.BytesToBytes32([]byte("a")))
	b := NewMapping[Uint64Key, uint64](ctx, tempo.BytesToBytes32([]byte("b")))

	assert.NoError(t, a.Set(7, 1))
	assert.NoError(t, b.Set(7, 2))

	va, _ := a.Get(7)
	vb, _ := b.Get(7)
	assert.Equal(t, uint64(1), va)
	assert.Equal(t, uint64(2), vb)
}

func TestPairKey(t *testing.T) {
	acc := tempo.BytesToAddress([]byte("alice"))
	k1 := PairKey{1, acc}
	k2 := PairKey{2, acc}
	assert.Len(t, k1.Bytes(), 28)
	assert.NotEqual(t, k1.Bytes(), k2.Bytes())
	assert.Equal(t, acc[:], k1.Bytes()[8:])
}

func TestUint64(t *testing.T) {
	ctx := newContext(t)
	u := NewUint64(ctx, tempo.BytesToBytes32([]byte("counter")))

	v, err := u.Get()
	assert.NoError(t, err)
	assert.Zero(t, v)

	u.Set(math.MaxUint64)
	v, _ = u.Get()
	assert.Equal(t, uint64(math.MaxUint64), v)

	err = u.Add(1)
	assert.True(t, IsOverflow(err))
	v, _ = u.Get()
	assert.Equal(t, uint64(math.MaxUint64), v)

	assert.NoError(t, u.Sub(math.MaxUint64))
	assert.True(t, IsOverflow(u.Sub(1)))
	assert.NoError(t, u.Add(5))
	v, _ = u.Get()
	assert.Equal(t, uint64(5), v)
}

func TestAddress(t *testing.T) {
	ctx := newContext(t)
	a := NewAddress(ctx, tempo.BytesToBytes32([]byte("owner")))

	got, err := a.Get()
	assert.NoError(t, err)
	assert.True(t, got.IsZero())

	acc := tempo.BytesToAddress([]byte("alice"))
	a.Set(acc)
	got, _ = a.Get()
	assert.Equal(t, acc, got)
}
