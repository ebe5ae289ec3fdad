// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bitcountry/tempo/api/utils"
	"github.com/bitcountry/tempo/lifecycle"
	"github.com/bitcountry/tempo/node"
	"github.com/bitcountry/tempo/tempo"
)

type Config struct {
	ClosingWindow       uint32        `json:"closingWindow"`
	AuctionDuration     uint32        `json:"auctionDuration"`
	DefaultRewardRate   tempo.Rate    `json:"defaultRewardRate"`
	LockedUntilFinalize bool          `json:"lockedUntilFinalize"`
	Treasury            tempo.Address `json:"treasury"`
}

type Stats struct {
	LivePools    uint64 `json:"livePools"`
	LiveAuctions uint64 `json:"liveAuctions"`
	Pending      uint64 `json:"pending"`
	TotalStaked  uint64 `json:"totalStaked"`
	NextTick     uint32 `json:"nextTick"`
}

type Status struct {
	GenesisID tempo.Bytes32 `json:"genesisId"`
	Head      uint32        `json:"head"`
	Building  uint32        `json:"building"`
	Config    *Config       `json:"config"`
	Stats     *Stats        `json:"stats"`
}

type Node struct {
	node *node.Node
}

func New(n *node.Node) *Node {
	return &Node{n}
}

func (n *Node) handleStatus(w http.ResponseWriter, _ *http.Request) error {
	cfg := n.node.Config()
	status := &Status{
		GenesisID: n.node.GenesisID(),
		Config: &Config{
			ClosingWindow:       cfg.ClosingWindow,
			AuctionDuration:     cfg.AuctionDuration,
			DefaultRewardRate:   cfg.DefaultRewardRate,
			LockedUntilFinalize: cfg.LockedUntilFinalize,
			Treasury:            cfg.Treasury,
		},
	}
	err := n.node.Do(func(b *node.Block) error {
		stats, err := b.Engine.Stats()
		if err != nil {
			return err
		}
		status.Head = b.Height - 1
		status.Building = b.Height
		status.Stats = convertStats(stats)
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, status)
}

func convertStats(s *lifecycle.Stats) *Stats {
	return &Stats{
		LivePools:    s.LivePools,
		LiveAuctions: s.LiveAuctions,
		Pending:      s.Pending,
		TotalStaked:  s.TotalStaked,
		NextTick:     s.NextTick,
	}
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").
		Methods(http.MethodGet).
		Name("node_get_status").
		HandlerFunc(utils.WrapHandlerFunc(n.handleStatus))
}
