// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bidding holds the bid decision policy for auctions.
package bidding

import (
	"fmt"

	"github.com/bitcountry/tempo/tempo"
)

// Bid is an offer of amount by bidder.
type Bid struct {
	Bidder tempo.Address
	Amount uint64
}

// Decision is the outcome of evaluating a bid.
type Decision struct {
	Accept bool
	NewEnd *uint32 // proposed end height, nil keeps the current end
	Reason string  // why the bid was rejected
}

// Rejection reasons.
const (
	ReasonEnded  = "auction ended"
	ReasonTooLow = "bid not higher than current leader"
)

// Evaluate decides whether proposed outbids last at height now.
// A bid is accepted iff now < end and it's strictly higher than last. When the
// remaining blocks are within closingWindow, the end is pushed to now+closingWindow.
func Evaluate(now uint32, last *Bid, proposed Bid, end, closingWindow uint32) Decision {
	if now >= end {
		return Decision{Reason: ReasonEnded}
	}
	if last != nil && proposed.Amount <= last.Amount {
		return Decision{Reason: fmt.Sprintf("%s (%d <= %d)", ReasonTooLow, proposed.Amount, last.Amount)}
	}

	d := Decision{Accept: true}
	if end-now <= closingWindow {
		if newEnd, ok := extend(now, closingWindow); ok && newEnd > end {
			d.NewEnd = &newEnd
		}
	}
	return d
}

func extend(now, window uint32) (uint32, bool) {
	sum := uint64(now) + uint64(window)
	if sum > uint64(^uint32(0)) {
		return 0, false
	}
	return uint32(sum), true
}
