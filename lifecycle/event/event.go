// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package event defines the notifications emitted by the lifecycle engine.
package event

import (
	"github.com/bitcountry/tempo/tempo"
)

// Kind is the tag of an event.
type Kind string

const (
	KindPoolCreated      Kind = "PoolCreated"
	KindAuctionCreated   Kind = "AuctionCreated"
	KindBidAccepted      Kind = "BidAccepted"
	KindBidRejected      Kind = "BidRejected"
	KindAuctionExtended  Kind = "AuctionExtended"
	KindAuctionFinalized Kind = "AuctionFinalized"
	KindPoolFinalized    Kind = "PoolFinalized"
	KindStaked           Kind = "Staked"
	KindUnstaked         Kind = "Unstaked"
	KindClaimed          Kind = "Claimed"
	KindFinalizeFailed   Kind = "FinalizeFailed"
)

// Kinds lists every event kind.
var Kinds = []Kind{
	KindPoolCreated,
	KindAuctionCreated,
	KindBidAccepted,
	KindBidRejected,
	KindAuctionExtended,
	KindAuctionFinalized,
	KindPoolFinalized,
	KindStaked,
	KindUnstaked,
	KindClaimed,
	KindFinalizeFailed,
}

// Event is the tagged union of all notifications.
type Event interface {
	Kind() Kind
	// Entity returns the namespace and id of the pool or auction concerned.
	Entity() (namespace string, id uint64)
	// Account returns the account concerned, zero if none.
	Account() tempo.Address
}

type (
	PoolCreated struct {
		Pool        uint64
		Creator     tempo.Address
		Country     uint64
		Name        string
		StartHeight uint32
		EndHeight   uint32
		RewardRate  tempo.Rate
	}

	AuctionCreated struct {
		Auction       uint64
		Creator       tempo.Address
		StartHeight   uint32
		EndHeight     uint32
		ClosingWindow uint32
	}

	BidAccepted struct {
		Auction uint64
		Bidder  tempo.Address
		Amount  uint64
	}

	BidRejected struct {
		Auction uint64
		Bidder  tempo.Address
		Amount  uint64
		Reason  string
	}

	AuctionExtended struct {
		Auction uint64
		OldEnd  uint32
		NewEnd  uint32
	}

	AuctionFinalized struct {
		Auction uint64
		Winner  *tempo.Address
		Amount  uint64
	}

	PoolFinalized struct {
		Pool          uint64
		TotalStaked   uint64
		Distributed   uint64
		Undistributed uint64
	}

	Staked struct {
		Pool   uint64
		Staker tempo.Address
		Amount uint64
	}

	Unstaked struct {
		Pool   uint64
		Staker tempo.Address
		Amount uint64
	}

	Claimed struct {
		Pool   uint64
		Staker tempo.Address
		Amount uint64
	}

	FinalizeFailed struct {
		Namespace string
		ID        uint64
		Height    uint32
		Reason    string
	}
)

func (PoolCreated) Kind() Kind      { return KindPoolCreated }
func (AuctionCreated) Kind() Kind   { return KindAuctionCreated }
func (BidAccepted) Kind() Kind      { return KindBidAccepted }
func (BidRejected) Kind() Kind      { return KindBidRejected }
func (AuctionExtended) Kind() Kind  { return KindAuctionExtended }
func (AuctionFinalized) Kind() Kind { return KindAuctionFinalized }
func (PoolFinalized) Kind() Kind    { return KindPoolFinalized }
func (Staked) Kind() Kind           { return KindStaked }
func (Unstaked) Kind() Kind         { return KindUnstaked }
func (Claimed) Kind() Kind          { return KindClaimed }
func (FinalizeFailed) Kind() Kind   { return KindFinalizeFailed }

const (
	NamespacePool    = "pool"
	NamespaceAuction = "auction"
)

func (e PoolCreated) Entity() (string, uint64)      { return NamespacePool, e.Pool }
func (e AuctionCreated) Entity() (string, uint64)   { return NamespaceAuction, e.Auction }
func (e BidAccepted) Entity() (string, uint64)      { return NamespaceAuction, e.Auction }
func (e BidRejected) Entity() (string, uint64)      { return NamespaceAuction, e.Auction }
func (e AuctionExtended) Entity() (string, uint64)  { return NamespaceAuction, e.Auction }
func (e AuctionFinalized) Entity() (string, uint64) { return NamespaceAuction, e.Auction }
func (e PoolFinalized) Entity() (string, uint64)    { return NamespacePool, e.Pool }
func (e Staked) Entity() (string, uint64)           { return NamespacePool, e.Pool }
func (e Unstaked) Entity() (string, uint64)         { return NamespacePool, e.Pool }
func (e Claimed) Entity() (string, uint64)          { return NamespacePool, e.Pool }
func (e FinalizeFailed) Entity() (string, uint64)   { return e.Namespace, e.ID }

func (e PoolCreated) Account() tempo.Address    { return e.Creator }
func (e AuctionCreated) Account() tempo.Address { return e.Creator }
func (e BidAccepted) Account() tempo.Address    { return e.Bidder }
func (e BidRejected) Account() tempo.Address    { return e.Bidder }
func (AuctionExtended) Account() tempo.Address  { return tempo.Address{} }
func (PoolFinalized) Account() tempo.Address    { return tempo.Address{} }
func (e Staked) Account() tempo.Address         { return e.Staker }
func (e Unstaked) Account() tempo.Address       { return e.Staker }
func (e Claimed) Account() tempo.Address        { return e.Staker }
func (FinalizeFailed) Account() tempo.Address   { return tempo.Address{} }

func (e AuctionFinalized) Account() tempo.Address {
	if e.Winner == nil {
		return tempo.Address{}
	}
	return *e.Winner
}
