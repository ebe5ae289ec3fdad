// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lifecycle

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcountry/tempo/lifecycle/bidding"
	"github.com/bitcountry/tempo/lifecycle/event"
	"github.com/bitcountry/tempo/lifecycle/expiry"
	"github.com/bitcountry/tempo/lifecycle/ledger"
	"github.com/bitcountry/tempo/lifecycle/registry"
	"github.com/bitcountry/tempo/lifecycle/reverts"
	"github.com/bitcountry/tempo/lvldb"
	"github.com/bitcountry/tempo/state"
	"github.com/bitcountry/tempo/tempo"
)

var (
	alice    = tempo.BytesToAddress([]byte("alice"))
	bob      = tempo.BytesToAddress([]byte("bob"))
	carol    = tempo.BytesToAddress([]byte("carol"))
	treasury = tempo.BytesToAddress([]byte("treasury"))
)

func M(a ...any) []any {
	return a
}

// testClock is a settable block height.
type testClock struct {
	height uint32
}

func (c *testClock) CurrentHeight() uint32 { return c.height }

// memCurrency is an in memory currency with failure injection.
type memCurrency struct {
	free     map[tempo.Address]uint64
	reserved map[tempo.Address]uint64

	failTransfer error
	failReserve  error
}

func newMemCurrency(balances map[tempo.Address]uint64) *memCurrency {
	c := &memCurrency{free: map[tempo.Address]uint64{}, reserved: map[tempo.Address]uint64{}}
	for k, v := range balances {
		c.free[k] = v
	}
	return c
}

func (c *memCurrency) Reserve(account tempo.Address, amount uint64) error {
	if c.failReserve != nil {
		return c.failReserve
	}
	if c.free[account] < amount {
		return reverts.ErrInsufficientFunds
	}
	c.free[account] -= amount
	c.reserved[account] += amount
	return nil
}

func (c *memCurrency) Release(account tempo.Address, amount uint64) error {
	if c.reserved[account] < amount {
		return reverts.ErrInsufficientFunds
	}
	c.reserved[account] -= amount
	c.free[account] += amount
	return nil
}

func (c *memCurrency) Transfer(from, to tempo.Address, amount uint64) error {
	if c.failTransfer != nil {
		return c.failTransfer
	}
	if c.free[from] < amount {
		return reverts.ErrInsufficientFunds
	}
	c.free[from] -= amount
	c.free[to] += amount
	return nil
}

// recordingHandler wraps the default policy and records ended auctions.
type recordingHandler struct {
	bidding.Handler
	ended map[uint64]*bidding.Bid
}

func (h *recordingHandler) OnAuctionEnded(id uint64, winner *bidding.Bid) {
	h.ended[id] = winner
}

type harness struct {
	engine   *Engine
	state    *state.State
	clock    *testClock
	currency *memCurrency
	handler  *recordingHandler
	events   *event.Buffer
}

func newHarness(t *testing.T, cfg Config) *harness {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &harness{
		state: state.New(db),
		clock: &testClock{},
		currency: newMemCurrency(map[tempo.Address]uint64{
			alice:    1000,
			bob:      1000,
			carol:    1000,
			treasury: 1000,
		}),
		events: &event.Buffer{},
	}
	h.handler = &recordingHandler{ended: map[uint64]*bidding.Bid{}}
	cfg.Treasury = treasury
	h.engine = New(h.state, cfg, Deps{
		Clock:    h.clock,
		Currency: h.currency,
		Handler:  h.handler,
		Sink:     h.events,
	})
	h.handler.Handler = bidding.NewAntiSnipe(h.engine.registry, nil)
	return h
}

func (h *harness) kinds() []event.Kind {
	var kinds []event.Kind
	for _, ev := range h.events.Events() {
		kinds = append(kinds, ev.Kind())
	}
	return kinds
}

// assertInvariants checks the cross entity invariants for the given entries.
func (h *harness) assertInvariants(t *testing.T, entries ...expiry.Entry) {
	for _, entry := range entries {
		live, err := h.engine.IsLive(entry)
		require.NoError(t, err)
		_, scheduled, err := h.engine.Scheduled(entry)
		require.NoError(t, err)
		assert.Equal(t, live, scheduled, "%v live but not scheduled or vice versa", entry)

		if entry.Kind != expiry.KindPool {
			continue
		}
		var sum uint64
		require.NoError(t, h.engine.IterStakers(entry.ID, func(_ tempo.Address, pos *ledger.Position) error {
			sum += pos.Staked
			return nil
		}))
		totals, err := h.engine.PoolTotals(entry.ID)
		require.NoError(t, err)
		assert.Equal(t, totals.Staked, sum, "%v conservation", entry)
	}
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	h *harness

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(h *harness) *TestSequence {
	return &TestSequence{h: h}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) At(height uint32) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.h.clock.height = height
	})
}

func (st *TestSequence) CreatePool(creator tempo.Address, params PoolParams, expectedID uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		id, err := st.h.engine.CreatePool(Signed(creator), params)
		if err != nil {
			t.Fatalf("failed to create pool %s: %v", params.Name, err)
		}
		assert.Equal(t, expectedID, id)
	})
}

func (st *TestSequence) CreateAuction(creator tempo.Address, params AuctionParams, expectedID uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		id, err := st.h.engine.CreateAuction(Signed(creator), params)
		if err != nil {
			t.Fatalf("failed to create auction: %v", err)
		}
		assert.Equal(t, expectedID, id)
	})
}

func (st *TestSequence) Stake(account tempo.Address, pool, amount uint64, expectedErr error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.h.engine.Stake(Signed(account), pool, amount)
		expectErr(t, expectedErr, err, "stake %d in pool %d", amount, pool)
	})
}

func (st *TestSequence) Unstake(account tempo.Address, pool, amount uint64, expectedErr error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.h.engine.Unstake(Signed(account), pool, amount)
		expectErr(t, expectedErr, err, "unstake %d from pool %d", amount, pool)
	})
}

func (st *TestSequence) Bid(account tempo.Address, auction, amount uint64, expectedErr error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		err := st.h.engine.PlaceBid(Signed(account), auction, amount)
		expectErr(t, expectedErr, err, "bid %d in auction %d", amount, auction)
	})
}

func (st *TestSequence) Claim(account tempo.Address, pool, expectedAmount uint64, expectedErr error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		amount, err := st.h.engine.Claim(Signed(account), pool)
		expectErr(t, expectedErr, err, "claim from pool %d", pool)
		assert.Equal(t, expectedAmount, amount)
	})
}

func (st *TestSequence) Tick(height uint32) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.h.clock.height = height
		if _, err := st.h.engine.Tick(height); err != nil {
			t.Fatalf("failed to tick at %d: %v", height, err)
		}
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}
}

func expectErr(t *testing.T, expected, actual error, msgAndArgs ...any) {
	if expected == nil {
		assert.NoError(t, actual, msgAndArgs...)
		return
	}
	assert.ErrorIs(t, actual, expected, msgAndArgs...)
}

type PoolAssertions struct {
	h  *harness
	id uint64

	status *registry.Status
	total  *uint64
}

func AssertPool(h *harness, id uint64) *PoolAssertions {
	return &PoolAssertions{h: h, id: id}
}

func (pa *PoolAssertions) Status(expected registry.Status) *PoolAssertions {
	pa.status = &expected
	return pa
}

func (pa *PoolAssertions) TotalStaked(expected uint64) *PoolAssertions {
	pa.total = &expected
	return pa
}

func (pa *PoolAssertions) Assert(t *testing.T) {
	pool, err := pa.h.engine.Pool(pa.id)
	require.NoError(t, err)
	if pa.status != nil {
		assert.Equal(t, *pa.status, pool.Status, "pool %d status", pa.id)
	}
	if pa.total != nil {
		totals, err := pa.h.engine.PoolTotals(pa.id)
		require.NoError(t, err)
		assert.Equal(t, *pa.total, totals.Staked, "pool %d total", pa.id)
	}
}

type AuctionAssertions struct {
	h  *harness
	id uint64

	status *registry.Status
	end    *uint32
	leader **bidding.Bid
}

func AssertAuction(h *harness, id uint64) *AuctionAssertions {
	return &AuctionAssertions{h: h, id: id}
}

func (aa *AuctionAssertions) Status(expected registry.Status) *AuctionAssertions {
	aa.status = &expected
	return aa
}

func (aa *AuctionAssertions) End(expected uint32) *AuctionAssertions {
	aa.end = &expected
	return aa
}

func (aa *AuctionAssertions) Leader(expected *bidding.Bid) *AuctionAssertions {
	aa.leader = &expected
	return aa
}

func (aa *AuctionAssertions) Assert(t *testing.T) {
	auction, err := aa.h.engine.Auction(aa.id)
	require.NoError(t, err)
	if aa.status != nil {
		assert.Equal(t, *aa.status, auction.Status, "auction %d status", aa.id)
	}
	if aa.end != nil {
		assert.Equal(t, *aa.end, auction.EndHeight, "auction %d end", aa.id)
		height, ok, err := aa.h.engine.Scheduled(expiry.AuctionEntry(aa.id))
		require.NoError(t, err)
		if auction.IsActive() {
			assert.True(t, ok)
			assert.Equal(t, *aa.end, height, "auction %d bucket", aa.id)
		}
	}
	if aa.leader != nil {
		assert.Equal(t, *aa.leader, auction.Leader, "auction %d leader", aa.id)
	}
}

var errBoom = errors.New("boom")
