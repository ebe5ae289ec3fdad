// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lifecycle

import (
	"github.com/bitcountry/tempo/lifecycle/bidding"
	"github.com/bitcountry/tempo/lifecycle/event"
	"github.com/bitcountry/tempo/lifecycle/expiry"
	"github.com/bitcountry/tempo/lifecycle/registry"
	"github.com/bitcountry/tempo/lifecycle/reverts"
)

// AuctionParams are the caller supplied parameters of a new auction.
// Zero values take the defaults: start at the current height, end after
// Config.AuctionDuration blocks and Config.ClosingWindow.
type AuctionParams struct {
	StartHeight   uint32
	EndHeight     uint32
	ClosingWindow uint32
}

// CreateAuction registers an auction and schedules its settlement at the end height.
func (e *Engine) CreateAuction(origin Origin, params AuctionParams) (uint64, error) {
	creator, err := e.deps.Resolver.Resolve(origin)
	if err != nil {
		return 0, err
	}
	now := e.now()
	if params.StartHeight == 0 {
		params.StartHeight = now
	}
	if params.EndHeight == 0 {
		end, ok := extend(params.StartHeight, e.cfg.AuctionDuration)
		if !ok {
			return 0, reverts.ErrInvalidWindow
		}
		params.EndHeight = end
	}
	if params.ClosingWindow == 0 {
		params.ClosingWindow = e.cfg.ClosingWindow
	}

	var id uint64
	err = e.atomic(func(*currencyJournal) error {
		id, err = e.registry.CreateAuction(now, registry.AuctionParams{
			Creator:       creator,
			StartHeight:   params.StartHeight,
			EndHeight:     params.EndHeight,
			ClosingWindow: params.ClosingWindow,
		})
		if err != nil {
			return err
		}
		if err := e.schedule(params.EndHeight, expiry.AuctionEntry(id)); err != nil {
			return err
		}
		e.events.Emit(event.AuctionCreated{
			Auction:       id,
			Creator:       creator,
			StartHeight:   params.StartHeight,
			EndHeight:     params.EndHeight,
			ClosingWindow: params.ClosingWindow,
		})
		return nil
	})
	if err != nil {
		logger.Debug("create auction failed", "creator", creator, "err", err)
		return 0, err
	}
	e.flush()

	logger.Debug("auction created", "id", id, "creator", creator, "start", params.StartHeight, "end", params.EndHeight)
	return id, nil
}

// PlaceBid offers amount in the auction. An accepted bid releases the funds of the
// previous leader, reserves the new bid and may extend the auction, all or nothing.
func (e *Engine) PlaceBid(origin Origin, id uint64, amount uint64) error {
	bidder, err := e.deps.Resolver.Resolve(origin)
	if err != nil {
		return err
	}
	if amount == 0 {
		return reverts.ErrZeroAmount
	}
	now := e.now()

	auction, err := e.registry.GetAuction(id)
	if err != nil {
		return err
	}
	if !auction.IsActive() {
		return reverts.ErrNotActive
	}
	if now < auction.StartHeight {
		return reverts.ErrNotStarted
	}

	proposed := bidding.Bid{Bidder: bidder, Amount: amount}
	decision := e.deps.Handler.OnNewBid(now, id, proposed, auction.Leader)
	if !decision.Accept {
		e.deps.Sink.Emit(event.BidRejected{Auction: id, Bidder: bidder, Amount: amount, Reason: decision.Reason})
		logger.Debug("bid rejected", "auction", id, "bidder", bidder, "amount", amount, "reason", decision.Reason)
		return reverts.ErrBidRejected.WithReason(decision.Reason)
	}

	err = e.atomic(func(j *currencyJournal) error {
		if last := auction.Leader; last != nil {
			if err := j.Release(last.Bidder, last.Amount); err != nil {
				return err
			}
		}
		if err := j.Reserve(bidder, amount); err != nil {
			return err
		}
		if err := e.registry.SetLeader(id, &proposed); err != nil {
			return err
		}
		e.events.Emit(event.BidAccepted{Auction: id, Bidder: bidder, Amount: amount})

		if decision.NewEnd != nil && *decision.NewEnd != auction.EndHeight {
			return e.extendAuction(id, *decision.NewEnd)
		}
		return nil
	})
	if err != nil {
		logger.Debug("bid failed", "auction", id, "bidder", bidder, "amount", amount, "err", err)
		return err
	}
	e.flush()

	logger.Debug("bid accepted", "auction", id, "bidder", bidder, "amount", amount)
	return nil
}

// extendAuction moves the end of the auction and its expiry entry together.
func (e *Engine) extendAuction(id uint64, newEnd uint32) error {
	oldEnd, err := e.registry.UpdateEnd(id, newEnd)
	if err != nil {
		return err
	}
	if err := e.expiry.Move(expiry.AuctionEntry(id), oldEnd, newEnd); err != nil {
		return err
	}
	e.events.Emit(event.AuctionExtended{Auction: id, OldEnd: oldEnd, NewEnd: newEnd})
	return nil
}

func extend(height, blocks uint32) (uint32, bool) {
	sum := uint64(height) + uint64(blocks)
	if sum > uint64(^uint32(0)) {
		return 0, false
	}
	return uint32(sum), true
}
