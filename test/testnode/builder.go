// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testnode builds nodes over in-memory stores for tests.
package testnode

import (
	"fmt"

	"github.com/bitcountry/tempo/eventlog"
	"github.com/bitcountry/tempo/genesis"
	"github.com/bitcountry/tempo/lvldb"
	"github.com/bitcountry/tempo/node"
	"github.com/bitcountry/tempo/tempo"
)

// Dev accounts funded by the devnet genesis.
var (
	Alice    = tempo.BytesToAddress([]byte("alice"))
	Bob      = tempo.BytesToAddress([]byte("bob"))
	Charlie  = tempo.BytesToAddress([]byte("charlie"))
	Dave     = tempo.BytesToAddress([]byte("dave"))
	Treasury = tempo.BytesToAddress([]byte("treasury"))
)

// NodeBuilder implements the builder pattern for creating a test node instance
type NodeBuilder struct {
	genesis *genesis.Genesis
	opts    node.Options
}

// NewNodeBuilder creates a new NodeBuilder with the devnet genesis
func NewNodeBuilder() *NodeBuilder {
	return &NodeBuilder{}
}

// WithGenesis sets the genesis of the node.
func (b *NodeBuilder) WithGenesis(gen *genesis.Genesis) *NodeBuilder {
	if gen == nil {
		panic("genesis cannot be nil")
	}
	b.genesis = gen
	return b
}

// WithOptions sets the node options.
func (b *NodeBuilder) WithOptions(opts node.Options) *NodeBuilder {
	b.opts = opts
	return b
}

// Build creates the node over in-memory stores. The returned func releases them.
func (b *NodeBuilder) Build() (*node.Node, func(), error) {
	gen := b.genesis
	if gen == nil {
		gen = genesis.NewDevnet()
	}
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	events, err := eventlog.NewMem()
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to open event log: %w", err)
	}
	n, err := node.New(db, events, gen, b.opts)
	if err != nil {
		events.Close()
		db.Close()
		return nil, nil, fmt.Errorf("failed to create node: %w", err)
	}
	return n, func() {
		events.Close()
		db.Close()
	}, nil
}

// NewDefaultNode creates a new node with default configuration
func NewDefaultNode() (*node.Node, func(), error) {
	return NewNodeBuilder().Build()
}
