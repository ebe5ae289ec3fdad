// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitcountry/tempo/co"
)

func TestSignalBroadcastBeforeWait(t *testing.T) {
	var sig co.Signal
	sig.Broadcast()

	select {
	case <-sig.Waiter():
		t.Fatal("waiter should not be ready")
	default:
	}
}

func TestSignalBroadcastAfterWait(t *testing.T) {
	var sig co.Signal

	var ws []<-chan struct{}
	for range 10 {
		ws = append(ws, sig.Waiter())
	}
	sig.Broadcast()

	for _, w := range ws {
		<-w
	}
	// a new waiter waits for the next broadcast
	select {
	case <-sig.Waiter():
		t.Fatal("waiter should not be ready")
	default:
	}
}

func TestGoes(t *testing.T) {
	var (
		goes co.Goes
		n    atomic.Int32
	)
	for range 10 {
		goes.Go(func() { n.Add(1) })
	}
	goes.Wait()
	assert.Equal(t, int32(10), n.Load())
}
