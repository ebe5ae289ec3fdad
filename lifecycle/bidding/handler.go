// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bidding

// Handler is the pluggable auction policy.
type Handler interface {
	// OnNewBid decides on a proposed bid. It must not mutate any state.
	OnNewBid(now uint32, id uint64, proposed Bid, last *Bid) Decision
	// OnAuctionEnded is notified once the auction is settled, winner is nil if there was no bid.
	OnAuctionEnded(id uint64, winner *Bid)
}

// Terms provides the timing terms of an auction.
type Terms interface {
	AuctionTerms(id uint64) (end, closingWindow uint32, err error)
}

// AntiSnipe is the default handler applying Evaluate with the auction's own terms.
type AntiSnipe struct {
	terms Terms
	ended func(id uint64, winner *Bid)
}

// NewAntiSnipe creates the default handler. ended is optional.
func NewAntiSnipe(terms Terms, ended func(id uint64, winner *Bid)) *AntiSnipe {
	return &AntiSnipe{terms: terms, ended: ended}
}

func (h *AntiSnipe) OnNewBid(now uint32, id uint64, proposed Bid, last *Bid) Decision {
	end, window, err := h.terms.AuctionTerms(id)
	if err != nil {
		return Decision{Reason: err.Error()}
	}
	return Evaluate(now, last, proposed, end, window)
}

func (h *AntiSnipe) OnAuctionEnded(id uint64, winner *Bid) {
	if h.ended != nil {
		h.ended(id, winner)
	}
}
