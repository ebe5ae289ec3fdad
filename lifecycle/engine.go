// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lifecycle

import (
	"github.com/bitcountry/tempo/lifecycle/bidding"
	"github.com/bitcountry/tempo/lifecycle/event"
	"github.com/bitcountry/tempo/lifecycle/expiry"
	"github.com/bitcountry/tempo/lifecycle/ledger"
	"github.com/bitcountry/tempo/lifecycle/registry"
	"github.com/bitcountry/tempo/lifecycle/slots"
	"github.com/bitcountry/tempo/log"
	"github.com/bitcountry/tempo/state"
	"github.com/bitcountry/tempo/tempo"
)

var (
	logger = log.WithContext("pkg", "lifecycle")

	slotNextTick = tempo.BytesToBytes32([]byte("engine-next-tick"))
)

// Deps are the collaborators of the engine.
type Deps struct {
	Clock    Clock
	Resolver OriginResolver // defaults to SignedResolver
	Currency Currency
	Handler  bidding.Handler // defaults to bidding.AntiSnipe over the registry
	Sink     event.Sink      // defaults to event.Discard
}

// Engine runs pools and auctions on top of a state.
// It's not safe for concurrent use, callers serialize all operations.
type Engine struct {
	cfg   Config
	deps  Deps
	state *state.State

	registry *registry.Service
	expiry   *expiry.Index
	ledger   *ledger.Service
	nextTick *slots.Uint64

	events event.Buffer
}

// New creates an engine over st.
func New(st *state.State, cfg Config, deps Deps) *Engine {
	sctx := slots.NewContext(tempo.LifecycleSpace, st)

	e := &Engine{
		cfg:      cfg,
		deps:     deps,
		state:    st,
		registry: registry.New(sctx),
		expiry:   expiry.New(sctx),
		ledger:   ledger.New(sctx),
		nextTick: slots.NewUint64(sctx, slotNextTick),
	}
	if e.deps.Resolver == nil {
		e.deps.Resolver = SignedResolver{}
	}
	if e.deps.Handler == nil {
		e.deps.Handler = bidding.NewAntiSnipe(e.registry, nil)
	}
	if e.deps.Sink == nil {
		e.deps.Sink = event.Discard
	}
	return e
}

// Config returns the config of the engine.
func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) now() uint32 {
	return e.deps.Clock.CurrentHeight()
}

// atomic runs fn under a state checkpoint. If fn fails, performed currency
// operations are compensated, state and buffered events are reverted.
func (e *Engine) atomic(fn func(j *currencyJournal) error) error {
	return e.atomicWithin(nil, fn)
}

// atomicWithin is atomic nested in an outer unit of work. Currency operations
// of a successful fn are handed over to parent so the outer unit can undo them.
func (e *Engine) atomicWithin(parent *currencyJournal, fn func(j *currencyJournal) error) error {
	rev := e.state.NewCheckpoint()
	mark := e.events.Mark()
	j := &currencyJournal{currency: e.deps.Currency}

	if err := fn(j); err != nil {
		j.compensate()
		e.state.RevertTo(rev)
		e.events.Truncate(mark)
		return err
	}
	if parent != nil {
		parent.undo = append(parent.undo, j.undo...)
	}
	return nil
}

// flush delivers buffered events of committed operations.
func (e *Engine) flush() {
	e.events.Flush(e.deps.Sink)
}

//
// Getters - no state change
//

// Pool returns the pool record.
func (e *Engine) Pool(id uint64) (*registry.Pool, error) {
	return e.registry.GetPool(id)
}

// Auction returns the auction record.
func (e *Engine) Auction(id uint64) (*registry.Auction, error) {
	return e.registry.GetAuction(id)
}

// Position returns the stake of account in an existing pool.
func (e *Engine) Position(pool uint64, account tempo.Address) (*ledger.Position, error) {
	if _, err := e.registry.GetPool(pool); err != nil {
		return nil, err
	}
	return e.ledger.Position(pool, account)
}

// PoolTotals returns the aggregates of an existing pool.
func (e *Engine) PoolTotals(pool uint64) (*ledger.Totals, error) {
	if _, err := e.registry.GetPool(pool); err != nil {
		return nil, err
	}
	return e.ledger.Totals(pool)
}

// StakerCount returns the number of accounts holding a position in pool.
func (e *Engine) StakerCount(pool uint64) (uint64, error) {
	return e.ledger.StakerCount(pool)
}

// IterStakers visits the stakers of pool.
func (e *Engine) IterStakers(pool uint64, callback func(tempo.Address, *ledger.Position) error) error {
	return e.ledger.IterStakers(pool, callback)
}

// PoolsOfCountry lists pool ids created for country.
func (e *Engine) PoolsOfCountry(country uint64) ([]uint64, error) {
	return e.registry.PoolsOfCountry(country)
}

// Scheduled returns the height entry is due at.
func (e *Engine) Scheduled(entry expiry.Entry) (uint32, bool, error) {
	return e.expiry.HeightOf(entry)
}

// Bucket returns the entries due at height.
func (e *Engine) Bucket(height uint32) ([]expiry.Entry, error) {
	return e.expiry.Bucket(height)
}

// IsLive reports whether the entry is in the active set.
func (e *Engine) IsLive(entry expiry.Entry) (bool, error) {
	if entry.Kind == expiry.KindPool {
		return e.registry.IsPoolLive(entry.ID)
	}
	return e.registry.IsAuctionLive(entry.ID)
}

// Stats are engine wide counters.
type Stats struct {
	LivePools    uint64
	LiveAuctions uint64
	Pending      uint64
	TotalStaked  uint64
	NextTick     uint32
}

// Stats returns engine wide counters.
func (e *Engine) Stats() (*Stats, error) {
	var (
		s   Stats
		err error
	)
	if s.LivePools, err = e.registry.LivePools(); err != nil {
		return nil, err
	}
	if s.LiveAuctions, err = e.registry.LiveAuctions(); err != nil {
		return nil, err
	}
	if s.Pending, err = e.expiry.Pending(); err != nil {
		return nil, err
	}
	if s.TotalStaked, err = e.ledger.TotalStaked(); err != nil {
		return nil, err
	}
	next, err := e.nextTick.Get()
	if err != nil {
		return nil, err
	}
	s.NextTick = uint32(next)
	return &s, nil
}
