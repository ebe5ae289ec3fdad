// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/api/utils"
	"github.com/bitcountry/tempo/lifecycle"
	"github.com/bitcountry/tempo/node"
	"github.com/bitcountry/tempo/tempo"
)

type Pools struct {
	node *node.Node
}

func New(n *node.Node) *Pools {
	return &Pools{n}
}

func (p *Pools) handleCreate(w http.ResponseWriter, req *http.Request) error {
	origin, err := utils.Origin(req)
	if err != nil {
		return err
	}
	var body CreatePool
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	var receipt Receipt
	err = p.node.Do(func(b *node.Block) (err error) {
		receipt.Height = b.Height
		receipt.ID, err = b.Engine.CreatePool(origin, lifecycle.PoolParams{
			Name:        body.Name,
			Country:     body.Country,
			StartHeight: body.StartHeight,
			EndHeight:   body.EndHeight,
			RewardRate:  body.RewardRate,
		})
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &receipt)
}

func (p *Pools) handleList(w http.ResponseWriter, req *http.Request) error {
	country, err := strconv.ParseUint(req.URL.Query().Get("country"), 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "country"))
	}
	var ids []uint64
	if err := p.node.Do(func(b *node.Block) (err error) {
		ids, err = b.Engine.PoolsOfCountry(country)
		return
	}); err != nil {
		return err
	}
	if ids == nil {
		ids = []uint64{}
	}
	return utils.WriteJSON(w, ids)
}

func (p *Pools) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	var pool *Pool
	err = p.node.Do(func(b *node.Block) error {
		rec, err := b.Engine.Pool(id)
		if err != nil {
			return err
		}
		totals, err := b.Engine.PoolTotals(id)
		if err != nil {
			return err
		}
		stakers, err := b.Engine.StakerCount(id)
		if err != nil {
			return err
		}
		pool = convertPool(rec, totals, stakers)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, pool)
}

func (p *Pools) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	account, err := tempo.ParseAddress(mux.Vars(req)["account"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "account"))
	}
	var pos *Position
	err = p.node.Do(func(b *node.Block) error {
		position, err := b.Engine.Position(id, *account)
		if err != nil {
			return err
		}
		pos = &Position{Pool: id, Account: *account, Staked: position.Staked, Accrued: position.Accrued}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, pos)
}

// amountOp parses the request of an operation moving an amount and runs it.
func (p *Pools) amountOp(req *http.Request, op func(e *lifecycle.Engine, origin lifecycle.Origin, id, amount uint64) error) (*Receipt, error) {
	id, err := utils.ParseID(mux.Vars(req)["id"])
	if err != nil {
		return nil, err
	}
	origin, err := utils.Origin(req)
	if err != nil {
		return nil, err
	}
	var body Amount
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	receipt := Receipt{ID: id}
	err = p.node.Do(func(b *node.Block) error {
		receipt.Height = b.Height
		return op(b.Engine, origin, id, body.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (p *Pools) handleStake(w http.ResponseWriter, req *http.Request) error {
	receipt, err := p.amountOp(req, func(e *lifecycle.Engine, origin lifecycle.Origin, id, amount uint64) error {
		return e.Stake(origin, id, amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (p *Pools) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	receipt, err := p.amountOp(req, func(e *lifecycle.Engine, origin lifecycle.Origin, id, amount uint64) error {
		return e.Unstake(origin, id, amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (p *Pools) handleClaim(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseID(mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	origin, err := utils.Origin(req)
	if err != nil {
		return err
	}
	var claimed Claimed
	err = p.node.Do(func(b *node.Block) (err error) {
		claimed.Height = b.Height
		claimed.Amount, err = b.Engine.Claim(origin, id)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &claimed)
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(p.handleCreate))
	sub.Path("").Methods(http.MethodGet).Queries("country", "{country}").HandlerFunc(utils.WrapHandlerFunc(p.handleList))
	sub.Path("/{id}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGet))
	sub.Path("/{id}/positions/{account}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(p.handleGetPosition))
	sub.Path("/{id}/stake").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(p.handleStake))
	sub.Path("/{id}/unstake").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(p.handleUnstake))
	sub.Path("/{id}/claim").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(p.handleClaim))
}
