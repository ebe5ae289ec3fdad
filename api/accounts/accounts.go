// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/api/utils"
	"github.com/bitcountry/tempo/node"
	"github.com/bitcountry/tempo/tempo"
)

type Account struct {
	Free     uint64 `json:"free"`
	Reserved uint64 `json:"reserved"`
}

type Accounts struct {
	node *node.Node
}

func New(n *node.Node) *Accounts {
	return &Accounts{n}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := tempo.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	var acc Account
	err = a.node.Do(func(b *node.Block) error {
		bal, err := b.Balances.Get(*addr)
		if err != nil {
			return err
		}
		acc.Free, acc.Reserved = bal.Free, bal.Reserved
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &acc)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
