// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lifecycle

import (
	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/lifecycle/bidding"
	"github.com/bitcountry/tempo/lifecycle/event"
	"github.com/bitcountry/tempo/lifecycle/expiry"
	"github.com/bitcountry/tempo/lifecycle/reverts"
)

// FailedEntry is an entry whose finalization failed and got rescheduled.
type FailedEntry struct {
	Entry       expiry.Entry
	Reason      string
	Rescheduled uint32
}

// TickReport summarizes a tick.
type TickReport struct {
	From      uint32 // first drained height
	To        uint32 // last drained height
	Finalized []expiry.Entry
	Failed    []FailedEntry
}

// Tick drains every bucket from the last ticked height up to height and
// finalizes the drained entries. height is capped at the current block height.
// Each entry is finalized on its own, a failing entry is reverted, reported and
// rescheduled at height+1 without affecting others. Heights already ticked are
// skipped, so each bucket is drained at most once. If the tick itself fails,
// everything it did is reverted and the same heights are drained again next time.
func (e *Engine) Tick(height uint32) (*TickReport, error) {
	if now := e.now(); height > now {
		height = now
	}
	next, err := e.nextTick.Get()
	if err != nil {
		return nil, err
	}
	report := &TickReport{From: uint32(next), To: height}
	if uint64(height) < next {
		return report, nil
	}

	var (
		rev   = e.state.NewCheckpoint()
		mark  = e.events.Mark()
		j     = &currencyJournal{currency: e.deps.Currency}
		ended []endedAuction
	)
	revert := func(err error) (*TickReport, error) {
		j.compensate()
		e.state.RevertTo(rev)
		e.events.Truncate(mark)
		return nil, err
	}
	for h := next; h <= uint64(height); h++ {
		entries, err := e.expiry.Drain(uint32(h))
		if err != nil {
			return revert(err)
		}
		for _, entry := range entries {
			if err := e.finalizeEntry(j, height, entry, report, &ended); err != nil {
				return revert(err)
			}
		}
	}
	e.nextTick.Set(uint64(height) + 1)
	e.flush()

	for _, a := range ended {
		e.deps.Handler.OnAuctionEnded(a.id, a.winner)
	}
	if len(report.Finalized) > 0 || len(report.Failed) > 0 {
		logger.Info("ticked", "height", height, "finalized", len(report.Finalized), "failed", len(report.Failed))
	}
	return report, nil
}

type endedAuction struct {
	id     uint64
	winner *bidding.Bid
}

// schedule queues entry for finalization at height end. Heights already
// ticked are never drained again, so end must not be behind the next tick.
func (e *Engine) schedule(end uint32, entry expiry.Entry) error {
	next, err := e.nextTick.Get()
	if err != nil {
		return err
	}
	if uint64(end) < next {
		return reverts.ErrInvalidWindow
	}
	return e.expiry.Insert(end, entry)
}

// finalizeEntry settles one drained entry. Only storage failures are returned.
func (e *Engine) finalizeEntry(tj *currencyJournal, height uint32, entry expiry.Entry, report *TickReport, ended *[]endedAuction) error {
	var winner *bidding.Bid
	err := e.atomicWithin(tj, func(j *currencyJournal) (err error) {
		switch entry.Kind {
		case expiry.KindPool:
			return e.settlePool(entry.ID)
		case expiry.KindAuction:
			winner, err = e.settleAuction(j, entry.ID)
			return err
		default:
			return errors.Errorf("unknown entry kind %v", entry.Kind)
		}
	})
	if err == nil {
		if entry.Kind == expiry.KindAuction {
			*ended = append(*ended, endedAuction{entry.ID, winner})
		}
		report.Finalized = append(report.Finalized, entry)
		logger.Info("finalized", "entry", entry, "height", height)
		return nil
	}

	// the last height has no successor, the entry stays scheduled there
	retry, ok := extend(height, 1)
	if !ok {
		retry = height
	}
	if ierr := e.expiry.Insert(retry, entry); ierr != nil {
		return errors.Wrapf(ierr, "reschedule %v", entry)
	}
	ns := event.NamespacePool
	if entry.Kind == expiry.KindAuction {
		ns = event.NamespaceAuction
	}
	e.events.Emit(event.FinalizeFailed{Namespace: ns, ID: entry.ID, Height: height, Reason: err.Error()})
	report.Failed = append(report.Failed, FailedEntry{Entry: entry, Reason: err.Error(), Rescheduled: retry})

	logger.Warn("finalize failed", "entry", entry, "height", height, "retry", retry, "err", err)
	return nil
}

func (e *Engine) settlePool(id uint64) error {
	pool, err := e.registry.GetPool(id)
	if err != nil {
		return err
	}
	accrual, err := e.ledger.AccrueReward(id, pool.RewardRate)
	if err != nil {
		return err
	}
	if err := e.registry.FinalizePool(id); err != nil {
		return err
	}
	if err := e.registry.RemovePool(id); err != nil {
		return err
	}
	totals, err := e.ledger.Totals(id)
	if err != nil {
		return err
	}
	e.events.Emit(event.PoolFinalized{
		Pool:          id,
		TotalStaked:   totals.Staked,
		Distributed:   accrual.Distributed,
		Undistributed: accrual.Undistributed,
	})
	return nil
}

// settleAuction pays the leader's bid to the creator and retires the auction.
func (e *Engine) settleAuction(j *currencyJournal, id uint64) (*bidding.Bid, error) {
	auction, err := e.registry.GetAuction(id)
	if err != nil {
		return nil, err
	}
	winner := auction.Leader
	ev := event.AuctionFinalized{Auction: id}
	if winner != nil {
		if err := j.Release(winner.Bidder, winner.Amount); err != nil {
			return nil, err
		}
		if err := j.Transfer(winner.Bidder, auction.Creator, winner.Amount); err != nil {
			return nil, err
		}
		bidder := winner.Bidder
		ev.Winner = &bidder
		ev.Amount = winner.Amount
	}
	if err := e.registry.FinalizeAuction(id); err != nil {
		return nil, err
	}
	if err := e.registry.RemoveAuction(id); err != nil {
		return nil, err
	}
	e.events.Emit(ev)
	return winner, nil
}
