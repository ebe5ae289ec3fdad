// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/bitcountry/tempo/lifecycle/ledger"
	"github.com/bitcountry/tempo/lifecycle/registry"
	"github.com/bitcountry/tempo/tempo"
)

type CreatePool struct {
	Name        string     `json:"name"`
	Country     uint64     `json:"country"`
	StartHeight uint32     `json:"startHeight"`
	EndHeight   uint32     `json:"endHeight"`
	RewardRate  tempo.Rate `json:"rewardRate"`
}

type Amount struct {
	Amount uint64 `json:"amount"`
}

type Receipt struct {
	ID     uint64 `json:"id"`
	Height uint32 `json:"height"`
}

type Claimed struct {
	Amount uint64 `json:"amount"`
	Height uint32 `json:"height"`
}

type Pool struct {
	ID            uint64          `json:"id"`
	Name          string          `json:"name"`
	Creator       tempo.Address   `json:"creator"`
	Country       uint64          `json:"country"`
	StartHeight   uint32          `json:"startHeight"`
	EndHeight     uint32          `json:"endHeight"`
	RewardRate    tempo.Rate      `json:"rewardRate"`
	Status        registry.Status `json:"status"`
	TotalStaked   uint64          `json:"totalStaked"`
	Stakers       uint64          `json:"stakers"`
	Accrued       bool            `json:"accrued"`
	Budget        uint64          `json:"budget"`
	Distributed   uint64          `json:"distributed"`
	Undistributed uint64          `json:"undistributed"`
	Claimed       uint64          `json:"claimed"`
}

func convertPool(p *registry.Pool, totals *ledger.Totals, stakers uint64) *Pool {
	return &Pool{
		ID:            p.ID,
		Name:          p.Name,
		Creator:       p.Creator,
		Country:       p.Country,
		StartHeight:   p.StartHeight,
		EndHeight:     p.EndHeight,
		RewardRate:    p.RewardRate,
		Status:        p.Status,
		TotalStaked:   totals.Staked,
		Stakers:       stakers,
		Accrued:       totals.Accrued,
		Budget:        totals.Budget,
		Distributed:   totals.Distributed,
		Undistributed: totals.Undistributed,
		Claimed:       totals.Claimed,
	}
}

type Position struct {
	Pool    uint64        `json:"pool"`
	Account tempo.Address `json:"account"`
	Staked  uint64        `json:"staked"`
	Accrued uint64        `json:"accrued"`
}
