// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node drives the lifecycle engine: it serializes operations into
// blocks, ticks the engine at the end of every block and commits the result.
package node

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/bitcountry/tempo/balances"
	"github.com/bitcountry/tempo/co"
	"github.com/bitcountry/tempo/eventlog"
	"github.com/bitcountry/tempo/genesis"
	"github.com/bitcountry/tempo/kv"
	"github.com/bitcountry/tempo/lifecycle"
	"github.com/bitcountry/tempo/lifecycle/bidding"
	"github.com/bitcountry/tempo/lifecycle/event"
	"github.com/bitcountry/tempo/log"
	"github.com/bitcountry/tempo/state"
	"github.com/bitcountry/tempo/tempo"
)

var logger = log.WithContext("pkg", "node")

type Options struct {
	BlockInterval time.Duration
	// Handler overrides the anti-snipe auction policy.
	Handler bidding.Handler
}

// Block is the block being built. Operations run against its engine.
type Block struct {
	Height   uint32
	Engine   *lifecycle.Engine
	Balances *balances.Balances

	state *state.State
	batch *eventlog.BlockBatch
}

// Node owns the store and the engine, and is the only concurrent component.
type Node struct {
	db      kv.Store
	events  *eventlog.EventLog
	cfg     lifecycle.Config
	opts    Options
	genesis tempo.Bytes32

	mu     sync.Mutex
	head   uint32
	block  *Block
	sealed co.Signal
}

// New opens the node over db, initializing it with gen if empty.
func New(db kv.Store, events *eventlog.EventLog, gen *genesis.Genesis, opts Options) (*Node, error) {
	if opts.BlockInterval <= 0 {
		opts.BlockInterval = time.Duration(tempo.BlockInterval) * time.Second
	}
	n := &Node{
		db:     db,
		events: events,
		cfg:    gen.EngineConfig(),
		opts:   opts,
	}

	id, err := gen.Build(state.New(emptyGetter))
	if err != nil {
		return nil, errors.WithMessage(err, "build genesis")
	}
	head, stored, ok, err := loadMeta(db)
	if err != nil {
		return nil, err
	}
	if ok {
		if stored != id {
			return nil, errors.Errorf("genesis mismatch: stored %v, given %v", stored, id)
		}
		n.head = head
	} else {
		if err := n.initGenesis(gen); err != nil {
			return nil, err
		}
	}
	n.genesis = id
	n.block = n.newBlock(n.head + 1)

	logger.Info("node opened", "genesis", id.AbbrevString(), "network", gen.Name, "head", n.head)
	return n, nil
}

func (n *Node) initGenesis(gen *genesis.Genesis) error {
	st := state.New(stateBucket.NewGetter(n.db))
	id, err := gen.Build(st)
	if err != nil {
		return errors.WithMessage(err, "build genesis")
	}
	bulk := n.db.Bulk()
	if err := st.Stage().Commit(stateBucket.NewPutter(bulk)); err != nil {
		return errors.Wrap(err, "commit genesis")
	}
	if err := saveMeta(bulk, 0, &id); err != nil {
		return errors.Wrap(err, "save meta")
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	logger.Info("genesis initialized", "id", id, "accounts", len(gen.Accounts))
	return nil
}

func (n *Node) newBlock(height uint32) *Block {
	st := state.New(stateBucket.NewGetter(n.db))
	batch := n.events.Prepare(height)
	bal := balances.New(st)

	engine := lifecycle.New(st, n.cfg, lifecycle.Deps{
		Clock:    lifecycle.ClockFunc(func() uint32 { return height }),
		Currency: bal,
		Handler:  n.opts.Handler,
		Sink:     event.Multi{batch, event.SinkFunc(countEvent)},
	})
	return &Block{
		Height:   height,
		Engine:   engine,
		Balances: bal,
		state:    st,
		batch:    batch,
	}
}

// GenesisID returns the id of the genesis.
func (n *Node) GenesisID() tempo.Bytes32 {
	return n.genesis
}

// Config returns the engine config.
func (n *Node) Config() lifecycle.Config {
	return n.cfg
}

// EventLog returns the archive of committed events.
func (n *Node) EventLog() *eventlog.EventLog {
	return n.events
}

// Head returns the height of the last sealed block.
func (n *Node) Head() uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.head
}

// Sealed returns a channel closed once the next block is sealed.
func (n *Node) Sealed() <-chan struct{} {
	return n.sealed.Waiter()
}

// Do runs fn against the block being built. Calls are serialized with each
// other and with sealing.
func (n *Node) Do(fn func(b *Block) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return fn(n.block)
}

// Seal ticks the engine at the height of the block being built, commits the
// state and the events, then opens the next block.
func (n *Node) Seal() (report *lifecycle.TickReport, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	start := time.Now()
	defer func() { evalSealMetrics(start, report, err) }()

	b := n.block
	if report, err = b.Engine.Tick(b.Height); err != nil {
		return nil, errors.WithMessagef(err, "tick %d", b.Height)
	}

	stage := b.state.Stage()
	bulk := n.db.Bulk()
	if err := stage.Commit(stateBucket.NewPutter(bulk)); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	if err := saveMeta(bulk, b.Height, nil); err != nil {
		return nil, errors.Wrap(err, "save meta")
	}
	if err := bulk.Write(); err != nil {
		return nil, errors.Wrap(err, "write state")
	}
	if err := b.batch.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit events")
	}

	n.head = b.Height
	n.block = n.newBlock(n.head + 1)
	n.sealed.Broadcast()

	logger.Debug("block sealed", "height", b.Height, "changes", stage.Len(), "events", b.batch.Len(),
		"finalized", len(report.Finalized), "failed", len(report.Failed), "elapsed", time.Since(start))
	return report, nil
}

// Run seals a block every interval until ctx is done or sealing fails.
func (n *Node) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	logger.Info("producing blocks", "interval", n.opts.BlockInterval)
	g.Go(func() error {
		return n.sealLoop(ctx)
	})
	g.Go(func() error {
		n.statsLoop(ctx)
		return nil
	})
	return g.Wait()
}

func (n *Node) sealLoop(ctx context.Context) error {
	ticker := time.NewTicker(n.opts.BlockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping block production")
			return nil
		case <-ticker.C:
			if _, err := n.Seal(); err != nil {
				logger.Error("failed to seal block", "err", err)
				return err
			}
		}
	}
}

func (n *Node) statsLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-n.Sealed():
			var (
				head  uint32
				stats *lifecycle.Stats
			)
			err := n.Do(func(b *Block) (err error) {
				head = b.Height - 1
				stats, err = b.Engine.Stats()
				return
			})
			if err != nil {
				logger.Warn("failed to load stats", "err", err)
				continue
			}
			updateStatsMetrics(head, stats)
		}
	}
}
