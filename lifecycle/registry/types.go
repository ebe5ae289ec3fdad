// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"fmt"

	"github.com/bitcountry/tempo/lifecycle/bidding"
	"github.com/bitcountry/tempo/tempo"
)

type Status uint8

const (
	StatusActive Status = iota + 1
	StatusFinalized
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "active":
		*s = StatusActive
	case "finalized":
		*s = StatusFinalized
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Pool is a fixed window staking vehicle.
type Pool struct {
	ID          uint64
	Name        string
	Creator     tempo.Address
	Country     uint64
	StartHeight uint32
	EndHeight   uint32
	RewardRate  tempo.Rate
	Status      Status
}

// IsActive reports whether the pool is not yet finalized.
func (p *Pool) IsActive() bool {
	return p.Status == StatusActive
}

// Started reports whether staking is open at height now.
func (p *Pool) Started(now uint32) bool {
	return now >= p.StartHeight
}

// Auction is a timed competitive bidding.
type Auction struct {
	ID            uint64
	Creator       tempo.Address
	StartHeight   uint32
	EndHeight     uint32
	ClosingWindow uint32
	Status        Status
	Leader        *bidding.Bid `rlp:"nil"`
}

func (a *Auction) IsActive() bool {
	return a.Status == StatusActive
}

// PoolParams are the creation parameters of a pool.
type PoolParams struct {
	Name        string
	Creator     tempo.Address
	Country     uint64
	StartHeight uint32
	EndHeight   uint32
	RewardRate  tempo.Rate
}

// AuctionParams are the creation parameters of an auction.
type AuctionParams struct {
	Creator       tempo.Address
	StartHeight   uint32
	EndHeight     uint32
	ClosingWindow uint32
}

func validateWindow(now, start, end uint32) bool {
	return now <= start && start < end
}
