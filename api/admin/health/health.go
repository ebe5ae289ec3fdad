// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/bitcountry/tempo/co"
	"github.com/bitcountry/tempo/node"
)

type LastSeal struct {
	Height    uint32     `json:"height"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy  bool      `json:"healthy"`
	LastSeal *LastSeal `json:"lastSeal"`
}

// Health tracks the block production of a node.
type Health struct {
	lock       sync.RWMutex
	node       *node.Node
	lastSealAt time.Time
	height     uint32
	done       chan struct{}
	goes       co.Goes
}

// New starts tracking n. The node counts as freshly sealed when tracking starts.
func New(n *node.Node) *Health {
	h := &Health{
		node:       n,
		lastSealAt: time.Now(),
		height:     n.Head(),
		done:       make(chan struct{}),
	}
	sealed := n.Sealed()
	h.goes.Go(func() { h.run(sealed) })
	return h
}

func (h *Health) run(sealed <-chan struct{}) {
	for {
		select {
		case <-h.done:
			return
		case <-sealed:
			sealed = h.node.Sealed()
			h.newSeal(h.node.Head())
		}
	}
}

func (h *Health) newSeal(height uint32) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastSealAt = time.Now()
	h.height = height
}

// Status reports the node healthy if a block was sealed within maxTimeBetweenSeals.
func (h *Health) Status(maxTimeBetweenSeals time.Duration) *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	at := h.lastSealAt
	return &Status{
		Healthy: time.Since(at) <= maxTimeBetweenSeals,
		LastSeal: &LastSeal{
			Height:    h.height,
			Timestamp: &at,
		},
	}
}

func (h *Health) Close() {
	close(h.done)
	h.goes.Wait()
}
