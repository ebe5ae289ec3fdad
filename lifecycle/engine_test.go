// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lifecycle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcountry/tempo/lifecycle/bidding"
	"github.com/bitcountry/tempo/lifecycle/event"
	"github.com/bitcountry/tempo/lifecycle/expiry"
	"github.com/bitcountry/tempo/lifecycle/ledger"
	"github.com/bitcountry/tempo/lifecycle/registry"
	"github.com/bitcountry/tempo/lifecycle/reverts"
	"github.com/bitcountry/tempo/tempo"
)

func p1(start, end uint32) PoolParams {
	return PoolParams{Name: "p1", Country: 1, StartHeight: start, EndHeight: end, RewardRate: tempo.PercentRate(10)}
}

func TestStakeAccrueClaim(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	NewSequence(h).
		At(0).
		CreatePool(alice, p1(0, 10), 0).
		Stake(alice, 0, 100, nil).
		Tick(10).
		Claim(alice, 0, 10, nil).
		Claim(alice, 0, 0, reverts.ErrNothingToClaim).
		Run(t)

	AssertPool(h, 0).Status(registry.StatusFinalized).TotalStaked(100).Assert(t)
	assert.Equal(t, M(&ledger.Position{Staked: 100}, nil), M(h.engine.Position(0, alice)))

	assert.Equal(t, uint64(910), h.currency.free[alice])
	assert.Equal(t, uint64(100), h.currency.reserved[alice])
	assert.Equal(t, uint64(990), h.currency.free[treasury])

	assert.Equal(t, []event.Kind{
		event.KindPoolCreated,
		event.KindStaked,
		event.KindPoolFinalized,
		event.KindClaimed,
	}, h.kinds())
	h.assertInvariants(t, expiry.PoolEntry(0))
}

func TestAntiSnipeExtension(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	NewSequence(h).
		At(0).
		CreateAuction(carol, AuctionParams{EndHeight: 100, ClosingWindow: 5}, 0).
		At(97).
		Bid(alice, 0, 50, nil).
		Run(t)
	AssertAuction(h, 0).End(102).Leader(&bidding.Bid{Bidder: alice, Amount: 50}).Assert(t)

	NewSequence(h).
		At(98).
		Bid(bob, 0, 40, reverts.ErrBidRejected).
		Run(t)
	AssertAuction(h, 0).End(102).Leader(&bidding.Bid{Bidder: alice, Amount: 50}).Assert(t)
	assert.Equal(t, uint64(1000), h.currency.free[bob])

	NewSequence(h).
		At(99).
		Bid(bob, 0, 60, nil).
		Run(t)
	AssertAuction(h, 0).End(104).Leader(&bidding.Bid{Bidder: bob, Amount: 60}).Assert(t)

	// alice refunded
	assert.Equal(t, uint64(1000), h.currency.free[alice])
	assert.Equal(t, uint64(0), h.currency.reserved[alice])
	assert.Equal(t, uint64(60), h.currency.reserved[bob])

	assert.Equal(t, M([]expiry.Entry(nil), nil), M(h.engine.Bucket(100)))
	assert.Equal(t, M([]expiry.Entry(nil), nil), M(h.engine.Bucket(102)))
	h.assertInvariants(t, expiry.AuctionEntry(0))

	NewSequence(h).Tick(103).Run(t)
	AssertAuction(h, 0).Status(registry.StatusActive).Assert(t)

	NewSequence(h).Tick(104).Run(t)
	AssertAuction(h, 0).Status(registry.StatusFinalized).Assert(t)
	assert.Equal(t, uint64(940), h.currency.free[bob])
	assert.Equal(t, uint64(0), h.currency.reserved[bob])
	assert.Equal(t, uint64(1060), h.currency.free[carol])
	assert.Equal(t, &bidding.Bid{Bidder: bob, Amount: 60}, h.handler.ended[0])
	h.assertInvariants(t, expiry.AuctionEntry(0))

	assert.Equal(t, []event.Kind{
		event.KindAuctionCreated,
		event.KindBidAccepted,
		event.KindAuctionExtended,
		event.KindBidRejected,
		event.KindBidAccepted,
		event.KindAuctionExtended,
		event.KindAuctionFinalized,
	}, h.kinds())
}

func TestAllocatorExhausted(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.engine.registry.PoolIDs().Reset(math.MaxUint64)

	_, err := h.engine.CreatePool(Signed(alice), p1(0, 10))
	assert.ErrorIs(t, err, reverts.ErrExhausted)
	assert.Equal(t, reverts.KindResourceExhausted, reverts.KindOf(err))

	assert.Equal(t, M(uint64(math.MaxUint64), nil), M(h.engine.registry.PoolIDs().Peek()))
	stats, err := h.engine.Stats()
	require.NoError(t, err)
	assert.Equal(t, &Stats{}, stats)
	assert.Empty(t, h.events.Events())
	assert.Equal(t, M([]expiry.Entry(nil), nil), M(h.engine.Bucket(10)))
}

func TestUnstakeInsufficient(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	NewSequence(h).
		CreatePool(alice, p1(0, 10), 0).
		Stake(alice, 0, 100, nil).
		Unstake(alice, 0, 150, reverts.ErrInsufficientStake).
		Run(t)

	assert.Equal(t, M(&ledger.Position{Staked: 100}, nil), M(h.engine.Position(0, alice)))
	assert.Equal(t, uint64(100), h.currency.reserved[alice])
	AssertPool(h, 0).TotalStaked(100).Assert(t)

	NewSequence(h).
		Unstake(alice, 0, 40, nil).
		Run(t)
	assert.Equal(t, uint64(60), h.currency.reserved[alice])
	assert.Equal(t, uint64(940), h.currency.free[alice])
	h.assertInvariants(t, expiry.PoolEntry(0))
}

func TestStakeRules(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	NewSequence(h).
		CreatePool(alice, p1(5, 10), 0).
		Stake(alice, 0, 10, reverts.ErrNotStarted).
		At(5).
		Stake(alice, 0, 0, reverts.ErrZeroAmount).
		Stake(alice, 1, 10, reverts.ErrPoolNotFound).
		Stake(alice, 0, 5000, reverts.ErrInsufficientFunds).
		Stake(alice, 0, 10, nil).
		Tick(10).
		Stake(alice, 0, 10, reverts.ErrNotActive).
		Run(t)

	assert.Equal(t, uint64(10), h.currency.reserved[alice])
	assert.Equal(t, uint64(990), h.currency.free[alice])
}

func TestStakeReserveThenRecord(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	NewSequence(h).CreatePool(alice, p1(0, 10), 0).Run(t)

	h.currency.failReserve = errBoom
	err := h.engine.Stake(Signed(bob), 0, 10)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, M(&ledger.Position{}, nil), M(h.engine.Position(0, bob)))
	AssertPool(h, 0).TotalStaked(0).Assert(t)
}

func TestLockedUntilFinalize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LockedUntilFinalize = true
	h := newHarness(t, cfg)

	NewSequence(h).
		CreatePool(alice, p1(0, 10), 0).
		Stake(alice, 0, 100, nil).
		Unstake(alice, 0, 100, reverts.ErrLockedUntilFinalize).
		Tick(10).
		Unstake(alice, 0, 100, nil).
		Claim(alice, 0, 10, nil).
		Run(t)

	assert.Equal(t, uint64(1010), h.currency.free[alice])
	assert.Equal(t, M(uint64(0), nil), M(h.engine.ledger.StakerCount(0)))
}

func TestUnauthorized(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	_, err := h.engine.CreatePool(Origin{Account: alice}, p1(0, 10))
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	_, err = h.engine.CreateAuction(Signed(tempo.Address{}), AuctionParams{})
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	assert.ErrorIs(t, h.engine.Stake(Origin{}, 0, 1), reverts.ErrUnauthorized)
	assert.ErrorIs(t, h.engine.Unstake(Origin{}, 0, 1), reverts.ErrUnauthorized)
	assert.ErrorIs(t, h.engine.PlaceBid(Origin{}, 0, 1), reverts.ErrUnauthorized)
	_, err = h.engine.Claim(Origin{}, 0)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
}

func TestDefaults(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.clock.height = 7

	id, err := h.engine.CreateAuction(Signed(alice), AuctionParams{})
	require.NoError(t, err)
	auction, err := h.engine.Auction(id)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), auction.StartHeight)
	assert.Equal(t, uint32(107), auction.EndHeight)
	assert.Equal(t, tempo.DefaultClosingWindow, auction.ClosingWindow)

	id, err = h.engine.CreatePool(Signed(alice), PoolParams{Name: "p", StartHeight: 7, EndHeight: 8})
	require.NoError(t, err)
	pool, err := h.engine.Pool(id)
	require.NoError(t, err)
	assert.Equal(t, tempo.PercentRate(10), pool.RewardRate)
	assert.Equal(t, alice, pool.Creator)

	assert.Equal(t, M([]uint64{id}, nil), M(h.engine.PoolsOfCountry(0)))
}

func TestCreateInvalidWindow(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.clock.height = 10

	_, err := h.engine.CreatePool(Signed(alice), p1(9, 20))
	assert.ErrorIs(t, err, reverts.ErrInvalidWindow)
	_, err = h.engine.CreateAuction(Signed(alice), AuctionParams{StartHeight: 10, EndHeight: 10})
	assert.ErrorIs(t, err, reverts.ErrInvalidWindow)
	_, err = h.engine.CreateAuction(Signed(alice), AuctionParams{StartHeight: math.MaxUint32 - 1})
	assert.ErrorIs(t, err, reverts.ErrInvalidWindow)

	stats, err := h.engine.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Pending)
}

func TestBidAtomicity(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	NewSequence(h).
		CreateAuction(carol, AuctionParams{EndHeight: 100}, 0).
		At(97).
		Bid(alice, 0, 50, nil).
		At(99).
		// bob can not afford it, alice's refund is compensated
		Bid(bob, 0, 5000, reverts.ErrInsufficientFunds).
		Run(t)

	AssertAuction(h, 0).End(102).Leader(&bidding.Bid{Bidder: alice, Amount: 50}).Assert(t)
	assert.Equal(t, uint64(50), h.currency.reserved[alice])
	assert.Equal(t, uint64(950), h.currency.free[alice])
	assert.Equal(t, uint64(1000), h.currency.free[bob])
	h.assertInvariants(t, expiry.AuctionEntry(0))

	// no event of the failed bid
	assert.Equal(t, []event.Kind{
		event.KindAuctionCreated,
		event.KindBidAccepted,
		event.KindAuctionExtended,
	}, h.kinds())
}

func TestBidRules(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	NewSequence(h).
		CreateAuction(carol, AuctionParams{StartHeight: 5, EndHeight: 100}, 0).
		Bid(alice, 0, 10, reverts.ErrNotStarted).
		At(5).
		Bid(alice, 0, 0, reverts.ErrZeroAmount).
		Bid(alice, 1, 10, reverts.ErrAuctionNotFound).
		Bid(alice, 0, 10, nil).
		// rebid by the leader releases the previous bid first
		Bid(alice, 0, 20, nil).
		At(100).
		Bid(bob, 0, 30, reverts.ErrBidRejected).
		Tick(100).
		Bid(bob, 0, 30, reverts.ErrNotActive).
		Run(t)

	assert.Equal(t, uint64(980), h.currency.free[alice])
	assert.Equal(t, uint64(0), h.currency.reserved[alice])
	assert.Equal(t, uint64(1020), h.currency.free[carol])
}

func TestAuctionWithoutBids(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	NewSequence(h).
		CreateAuction(carol, AuctionParams{EndHeight: 10}, 0).
		Tick(10).
		Run(t)

	AssertAuction(h, 0).Status(registry.StatusFinalized).Leader(nil).Assert(t)
	winner, ok := h.handler.ended[0]
	assert.True(t, ok)
	assert.Nil(t, winner)
}

type lowerEndHandler struct{}

func (lowerEndHandler) OnNewBid(now uint32, id uint64, proposed bidding.Bid, last *bidding.Bid) bidding.Decision {
	end := now + 1
	return bidding.Decision{Accept: true, NewEnd: &end}
}

func (lowerEndHandler) OnAuctionEnded(uint64, *bidding.Bid) {}

func TestHandlerCannotShortenAuction(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.engine.deps.Handler = lowerEndHandler{}

	NewSequence(h).
		CreateAuction(carol, AuctionParams{EndHeight: 100}, 0).
		At(10).
		Bid(alice, 0, 10, reverts.ErrMonotonicity).
		Run(t)

	AssertAuction(h, 0).End(100).Leader(nil).Assert(t)
	assert.Equal(t, uint64(1000), h.currency.free[alice])
	assert.Equal(t, uint64(0), h.currency.reserved[alice])
}

func TestTickIsolatesFailures(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	NewSequence(h).
		CreateAuction(carol, AuctionParams{EndHeight: 50}, 0).
		CreateAuction(carol, AuctionParams{EndHeight: 50}, 1).
		CreatePool(alice, p1(0, 50), 0).
		Stake(bob, 0, 100, nil).
		Bid(alice, 0, 10, nil).
		Bid(bob, 1, 20, nil).
		Run(t)

	h.currency.failTransfer = errBoom
	h.clock.height = 50
	report, err := h.engine.Tick(50)
	require.NoError(t, err)

	assert.Equal(t, []expiry.Entry{expiry.PoolEntry(0)}, report.Finalized)
	require.Len(t, report.Failed, 2)
	assert.Equal(t, expiry.AuctionEntry(0), report.Failed[0].Entry)
	assert.Equal(t, expiry.AuctionEntry(1), report.Failed[1].Entry)
	assert.Equal(t, uint32(51), report.Failed[0].Rescheduled)
	assert.Equal(t, "boom", report.Failed[0].Reason)

	// failed entries are untouched and rescheduled
	AssertAuction(h, 0).Status(registry.StatusActive).Leader(&bidding.Bid{Bidder: alice, Amount: 10}).Assert(t)
	assert.Equal(t, uint64(10), h.currency.reserved[alice])
	assert.Equal(t, M([]expiry.Entry{expiry.AuctionEntry(0), expiry.AuctionEntry(1)}, nil), M(h.engine.Bucket(51)))
	AssertPool(h, 0).Status(registry.StatusFinalized).Assert(t)
	h.assertInvariants(t, expiry.AuctionEntry(0), expiry.AuctionEntry(1), expiry.PoolEntry(0))

	var failed int
	for _, ev := range h.events.Events() {
		if ev.Kind() == event.KindFinalizeFailed {
			failed++
		}
	}
	assert.Equal(t, 2, failed)
	assert.Empty(t, h.handler.ended)

	h.currency.failTransfer = nil
	NewSequence(h).Tick(51).Run(t)
	AssertAuction(h, 0).Status(registry.StatusFinalized).Assert(t)
	AssertAuction(h, 1).Status(registry.StatusFinalized).Assert(t)
	assert.Equal(t, uint64(1030), h.currency.free[carol])
	assert.Len(t, h.handler.ended, 2)
	h.assertInvariants(t, expiry.AuctionEntry(0), expiry.AuctionEntry(1))
}

func TestTickDrainsOnce(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	NewSequence(h).
		CreatePool(alice, p1(0, 3), 0).
		CreatePool(alice, p1(0, 7), 1).
		Run(t)

	// catch up from genesis
	h.clock.height = 5
	report, err := h.engine.Tick(5)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), report.From)
	assert.Equal(t, []expiry.Entry{expiry.PoolEntry(0)}, report.Finalized)

	for _, height := range []uint32{5, 4, 0} {
		report, err = h.engine.Tick(height)
		require.NoError(t, err)
		assert.Empty(t, report.Finalized)
	}

	h.clock.height = 7
	report, err = h.engine.Tick(7)
	require.NoError(t, err)
	assert.Equal(t, uint32(6), report.From)
	assert.Equal(t, []expiry.Entry{expiry.PoolEntry(1)}, report.Finalized)

	stats, err := h.engine.Stats()
	require.NoError(t, err)
	assert.Equal(t, &Stats{NextTick: 8}, stats)
}

func TestTickFollowsClock(t *testing.T) {
	h := newHarness(t, DefaultConfig())

	// heights beyond the current block are not drained
	h.clock.height = 5
	report, err := h.engine.Tick(10)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), report.To)
	stats, err := h.engine.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), stats.NextTick)

	NewSequence(h).
		At(5).
		CreatePool(alice, p1(5, 8), 0).
		Stake(bob, 0, 100, nil).
		Tick(8).
		Run(t)
	AssertPool(h, 0).Status(registry.StatusFinalized).Assert(t)
	h.assertInvariants(t, expiry.PoolEntry(0))

	NewSequence(h).Tick(11).Tick(50).Run(t)
	AssertPool(h, 0).Status(registry.StatusFinalized).Assert(t)

	// a clock behind the ticked heights cannot schedule into drained buckets
	h.clock.height = 3
	_, err = h.engine.CreatePool(Signed(alice), p1(4, 8))
	assert.ErrorIs(t, err, reverts.ErrInvalidWindow)
	_, err = h.engine.CreateAuction(Signed(carol), AuctionParams{StartHeight: 4, EndHeight: 20})
	assert.ErrorIs(t, err, reverts.ErrInvalidWindow)

	NewSequence(h).
		CreatePool(alice, p1(4, 51), 1).
		CreateAuction(carol, AuctionParams{StartHeight: 4, EndHeight: 60}, 0).
		Run(t)
	height, scheduled, err := h.engine.Scheduled(expiry.PoolEntry(1))
	require.NoError(t, err)
	assert.True(t, scheduled)
	assert.Equal(t, uint32(51), height)
	h.assertInvariants(t, expiry.PoolEntry(1))
}

func TestTickAtLastHeight(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	h.engine.nextTick.Set(math.MaxUint32 - 2)

	NewSequence(h).
		At(math.MaxUint32-2).
		CreatePool(alice, p1(math.MaxUint32-2, math.MaxUint32), 0).
		CreateAuction(carol, AuctionParams{EndHeight: math.MaxUint32}, 0).
		Stake(bob, 0, 100, nil).
		Bid(alice, 0, 10, nil).
		Run(t)

	h.currency.failTransfer = errBoom
	h.clock.height = math.MaxUint32
	report, err := h.engine.Tick(math.MaxUint32)
	require.NoError(t, err)

	assert.Equal(t, []expiry.Entry{expiry.PoolEntry(0)}, report.Finalized)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, expiry.AuctionEntry(0), report.Failed[0].Entry)
	assert.Equal(t, uint32(math.MaxUint32), report.Failed[0].Rescheduled)

	AssertPool(h, 0).Status(registry.StatusFinalized).Assert(t)
	AssertAuction(h, 0).Status(registry.StatusActive).Leader(&bidding.Bid{Bidder: alice, Amount: 10}).Assert(t)
	assert.Equal(t, uint64(10), h.currency.reserved[alice])
	height, scheduled, err := h.engine.Scheduled(expiry.AuctionEntry(0))
	require.NoError(t, err)
	assert.True(t, scheduled)
	assert.Equal(t, uint32(math.MaxUint32), height)
	h.assertInvariants(t, expiry.AuctionEntry(0), expiry.PoolEntry(0))
}

func TestMultiplePoolsConservation(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	seq := NewSequence(h).
		CreatePool(alice, p1(0, 20), 0).
		CreatePool(bob, p1(0, 30), 1)
	for i, acc := range []tempo.Address{alice, bob, carol} {
		amount := uint64(10 * (i + 1))
		seq.Stake(acc, 0, amount, nil).Stake(acc, 1, amount+1, nil)
	}
	seq.Unstake(bob, 0, 5, nil).
		Unstake(carol, 1, 31, nil).
		Run(t)

	h.assertInvariants(t, expiry.PoolEntry(0), expiry.PoolEntry(1))
	AssertPool(h, 0).TotalStaked(55).Assert(t)
	AssertPool(h, 1).TotalStaked(32).Assert(t)

	stats, err := h.engine.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(87), stats.TotalStaked)
	assert.Equal(t, uint64(2), stats.LivePools)
	assert.Equal(t, uint64(2), stats.Pending)
}
