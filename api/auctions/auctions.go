// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auctions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/api/utils"
	"github.com/bitcountry/tempo/lifecycle"
	"github.com/bitcountry/tempo/lifecycle/expiry"
	"github.com/bitcountry/tempo/lifecycle/registry"
	"github.com/bitcountry/tempo/node"
	"github.com/bitcountry/tempo/tempo"
)

type CreateAuction struct {
	StartHeight   uint32 `json:"startHeight"`
	EndHeight     uint32 `json:"endHeight"`
	ClosingWindow uint32 `json:"closingWindow"`
}

type PlaceBid struct {
	Amount uint64 `json:"amount"`
}

type Receipt struct {
	ID     uint64 `json:"id"`
	Height uint32 `json:"height"`
}

type Bid struct {
	Bidder tempo.Address `json:"bidder"`
	Amount uint64        `json:"amount"`
}

type Auction struct {
	ID            uint64          `json:"id"`
	Creator       tempo.Address   `json:"creator"`
	StartHeight   uint32          `json:"startHeight"`
	EndHeight     uint32          `json:"endHeight"`
	ClosingWindow uint32          `json:"closingWindow"`
	Status        registry.Status `json:"status"`
	Leader        *Bid            `json:"leader"`
	// ScheduledAt is the height the auction settles at, nil once settled.
	ScheduledAt *uint32 `json:"scheduledAt"`
}

type Auctions struct {
	node *node.Node
}

func New(n *node.Node) *Auctions {
	return &Auctions{n}
}

func (a *Auctions) getAuction(e *lifecycle.Engine, id uint64) (*Auction, error) {
	rec, err := e.Auction(id)
	if err != nil {
		return nil, err
	}
	auction := &Auction{
		ID:            rec.ID,
		Creator:       rec.Creator,
		StartHeight:   rec.StartHeight,
		EndHeight:     rec.EndHeight,
		ClosingWindow: rec.ClosingWindow,
		Status:        rec.Status,
	}
	if rec.Leader != nil {
		auction.Leader = &Bid{Bidder: rec.Leader.Bidder, Amount: rec.Leader.Amount}
	}
	height, ok, err := e.Scheduled(expiry.AuctionEntry(id))
	if err != nil {
		return nil, err
	}
	if ok {
		auction.ScheduledAt = &height
	}
	return auction, nil
}

func (a *Auctions) handleCreate(w http.ResponseWriter, req *http.Request) error {
	origin, err := utils.Origin(req)
	if err != nil {
		return err
	}
	var body CreateAuction
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	var receipt Receipt
	err = a.node.Do(func(b *node.Block) (err error) {
		receipt.Height = b.Height
		receipt.ID, err = b.Engine.CreateAuction(origin, lifecycle.AuctionParams{
			StartHeight:   body.StartHeight,
			EndHeight:     body.EndHeight,
			ClosingWindow: body.ClosingWindow,
		})
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &receipt)
}

func (a *Auctions) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var auction *Auction
	if err := a.node.Do(func(b *node.Block) (err error) {
		auction, err = a.getAuction(b.Engine, id)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, auction)
}

// handlePlaceBid responds the auction as it is after the bid.
func (a *Auctions) handlePlaceBid(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	origin, err := utils.Origin(req)
	if err != nil {
		return err
	}
	var body PlaceBid
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	var auction *Auction
	if err := a.node.Do(func(b *node.Block) (err error) {
		if err := b.Engine.PlaceBid(origin, id, body.Amount); err != nil {
			return err
		}
		auction, err = a.getAuction(b.Engine, id)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, auction)
}

func (a *Auctions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handleCreate))
	sub.Path("/{id}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGet))
	sub.Path("/{id}/bids").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(a.handlePlaceBid))
}
