// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/lifecycle/bidding"
	"github.com/bitcountry/tempo/lifecycle/ids"
	"github.com/bitcountry/tempo/lifecycle/reverts"
	"github.com/bitcountry/tempo/lifecycle/slots"
	"github.com/bitcountry/tempo/tempo"
)

var (
	slotPools          = tempo.BytesToBytes32([]byte("registry-pools"))
	slotAuctions       = tempo.BytesToBytes32([]byte("registry-auctions"))
	slotLivePools      = tempo.BytesToBytes32([]byte("registry-live-pools"))
	slotLiveAuctions   = tempo.BytesToBytes32([]byte("registry-live-auctions"))
	slotLivePoolCount  = tempo.BytesToBytes32([]byte("registry-live-pool-count"))
	slotLiveAuctionCnt = tempo.BytesToBytes32([]byte("registry-live-auction-count"))
	slotCountryPools   = tempo.BytesToBytes32([]byte("registry-country-pools"))
)

// Service is the authoritative store of pools and auctions.
// Records are retained after finalization, the active set only tracks entities
// not yet removed by the scheduler.
type Service struct {
	poolIDs    *ids.Allocator
	auctionIDs *ids.Allocator

	pools    *slots.Mapping[slots.Uint64Key, *Pool]
	auctions *slots.Mapping[slots.Uint64Key, *Auction]

	livePools        *slots.Mapping[slots.Uint64Key, bool]
	liveAuctions     *slots.Mapping[slots.Uint64Key, bool]
	livePoolCount    *slots.Uint64
	liveAuctionCount *slots.Uint64

	countryPools *slots.Mapping[slots.Uint64Key, []uint64]
}

func New(sctx *slots.Context) *Service {
	return &Service{
		poolIDs:    ids.New(sctx, "pool"),
		auctionIDs: ids.New(sctx, "auction"),

		pools:    slots.NewMapping[slots.Uint64Key, *Pool](sctx, slotPools),
		auctions: slots.NewMapping[slots.Uint64Key, *Auction](sctx, slotAuctions),

		livePools:        slots.NewMapping[slots.Uint64Key, bool](sctx, slotLivePools),
		liveAuctions:     slots.NewMapping[slots.Uint64Key, bool](sctx, slotLiveAuctions),
		livePoolCount:    slots.NewUint64(sctx, slotLivePoolCount),
		liveAuctionCount: slots.NewUint64(sctx, slotLiveAuctionCnt),

		countryPools: slots.NewMapping[slots.Uint64Key, []uint64](sctx, slotCountryPools),
	}
}

// PoolIDs exposes the pool id allocator.
func (s *Service) PoolIDs() *ids.Allocator {
	return s.poolIDs
}

//
// Pools
//

// CreatePool validates the window, allocates an id and stores the pool as active.
func (s *Service) CreatePool(now uint32, params PoolParams) (uint64, error) {
	if !validateWindow(now, params.StartHeight, params.EndHeight) {
		return 0, reverts.ErrInvalidWindow
	}
	if params.Name == "" || len(params.Name) > tempo.MaxPoolNameLength {
		return 0, reverts.ErrInvalidName
	}
	if !params.RewardRate.Valid() {
		return 0, reverts.ErrInvalidRate
	}

	id, err := s.poolIDs.Next()
	if err != nil {
		return 0, err
	}

	pool := &Pool{
		ID:          id,
		Name:        params.Name,
		Creator:     params.Creator,
		Country:     params.Country,
		StartHeight: params.StartHeight,
		EndHeight:   params.EndHeight,
		RewardRate:  params.RewardRate,
		Status:      StatusActive,
	}
	if err := s.pools.Set(slots.Uint64Key(id), pool); err != nil {
		return 0, errors.Wrap(err, "failed to set pool")
	}
	if err := s.livePools.Set(slots.Uint64Key(id), true); err != nil {
		return 0, errors.Wrap(err, "failed to set live pool")
	}
	if err := s.livePoolCount.Add(1); err != nil {
		return 0, err
	}

	country, err := s.countryPools.Get(slots.Uint64Key(params.Country))
	if err != nil {
		return 0, errors.Wrap(err, "failed to get country pools")
	}
	if err := s.countryPools.Set(slots.Uint64Key(params.Country), append(country, id)); err != nil {
		return 0, errors.Wrap(err, "failed to set country pools")
	}

	return id, nil
}

// GetPool returns the pool record, active or finalized.
func (s *Service) GetPool(id uint64) (*Pool, error) {
	pool, err := s.pools.Get(slots.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	if pool == nil {
		return nil, reverts.ErrPoolNotFound
	}
	return pool, nil
}

// FinalizePool marks the pool finalized.
func (s *Service) FinalizePool(id uint64) error {
	pool, err := s.GetPool(id)
	if err != nil {
		return err
	}
	if !pool.IsActive() {
		return reverts.ErrNotActive
	}
	pool.Status = StatusFinalized
	return s.pools.Set(slots.Uint64Key(id), pool)
}

// RemovePool drops a finalized pool from the active set.
func (s *Service) RemovePool(id uint64) error {
	pool, err := s.GetPool(id)
	if err != nil {
		return err
	}
	live, err := s.livePools.Get(slots.Uint64Key(id))
	if err != nil {
		return errors.Wrap(err, "failed to get live pool")
	}
	if !live {
		return reverts.ErrPoolNotFound
	}
	if pool.IsActive() {
		return reverts.ErrNotFinalized
	}
	s.livePools.Delete(slots.Uint64Key(id))
	return s.livePoolCount.Sub(1)
}

// IsPoolLive reports whether the pool is in the active set.
func (s *Service) IsPoolLive(id uint64) (bool, error) {
	return s.livePools.Get(slots.Uint64Key(id))
}

// LivePools returns the size of the pools active set.
func (s *Service) LivePools() (uint64, error) {
	return s.livePoolCount.Get()
}

// PoolsOfCountry lists ids of pools created for the country, in creation order.
func (s *Service) PoolsOfCountry(country uint64) ([]uint64, error) {
	return s.countryPools.Get(slots.Uint64Key(country))
}

//
// Auctions
//

// CreateAuction validates the window, allocates an id and stores the auction as active.
func (s *Service) CreateAuction(now uint32, params AuctionParams) (uint64, error) {
	if !validateWindow(now, params.StartHeight, params.EndHeight) {
		return 0, reverts.ErrInvalidWindow
	}

	id, err := s.auctionIDs.Next()
	if err != nil {
		return 0, err
	}

	auction := &Auction{
		ID:            id,
		Creator:       params.Creator,
		StartHeight:   params.StartHeight,
		EndHeight:     params.EndHeight,
		ClosingWindow: params.ClosingWindow,
		Status:        StatusActive,
	}
	if err := s.auctions.Set(slots.Uint64Key(id), auction); err != nil {
		return 0, errors.Wrap(err, "failed to set auction")
	}
	if err := s.liveAuctions.Set(slots.Uint64Key(id), true); err != nil {
		return 0, errors.Wrap(err, "failed to set live auction")
	}
	if err := s.liveAuctionCount.Add(1); err != nil {
		return 0, err
	}
	return id, nil
}

// GetAuction returns the auction record, active or finalized.
func (s *Service) GetAuction(id uint64) (*Auction, error) {
	auction, err := s.auctions.Get(slots.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get auction")
	}
	if auction == nil {
		return nil, reverts.ErrAuctionNotFound
	}
	return auction, nil
}

// AuctionTerms implements bidding.Terms.
func (s *Service) AuctionTerms(id uint64) (uint32, uint32, error) {
	auction, err := s.GetAuction(id)
	if err != nil {
		return 0, 0, err
	}
	return auction.EndHeight, auction.ClosingWindow, nil
}

// UpdateEnd moves the end of an active auction. The end never decreases.
// It returns the previous end.
func (s *Service) UpdateEnd(id uint64, newEnd uint32) (uint32, error) {
	auction, err := s.GetAuction(id)
	if err != nil {
		return 0, err
	}
	if !auction.IsActive() {
		return 0, reverts.ErrNotActive
	}
	if newEnd < auction.EndHeight {
		return 0, reverts.ErrMonotonicity
	}
	old := auction.EndHeight
	auction.EndHeight = newEnd
	if err := s.auctions.Set(slots.Uint64Key(id), auction); err != nil {
		return 0, errors.Wrap(err, "failed to set auction")
	}
	return old, nil
}

// SetLeader replaces the current leader of an active auction.
func (s *Service) SetLeader(id uint64, leader *bidding.Bid) error {
	auction, err := s.GetAuction(id)
	if err != nil {
		return err
	}
	if !auction.IsActive() {
		return reverts.ErrNotActive
	}
	auction.Leader = leader
	if err := s.auctions.Set(slots.Uint64Key(id), auction); err != nil {
		return errors.Wrap(err, "failed to set auction")
	}
	return nil
}

// FinalizeAuction marks the auction finalized.
func (s *Service) FinalizeAuction(id uint64) error {
	auction, err := s.GetAuction(id)
	if err != nil {
		return err
	}
	if !auction.IsActive() {
		return reverts.ErrNotActive
	}
	auction.Status = StatusFinalized
	return s.auctions.Set(slots.Uint64Key(id), auction)
}

// RemoveAuction drops a finalized auction from the active set.
func (s *Service) RemoveAuction(id uint64) error {
	auction, err := s.GetAuction(id)
	if err != nil {
		return err
	}
	live, err := s.liveAuctions.Get(slots.Uint64Key(id))
	if err != nil {
		return errors.Wrap(err, "failed to get live auction")
	}
	if !live {
		return reverts.ErrAuctionNotFound
	}
	if auction.IsActive() {
		return reverts.ErrNotFinalized
	}
	s.liveAuctions.Delete(slots.Uint64Key(id))
	return s.liveAuctionCount.Sub(1)
}

// IsAuctionLive reports whether the auction is in the active set.
func (s *Service) IsAuctionLive(id uint64) (bool, error) {
	return s.liveAuctions.Get(slots.Uint64Key(id))
}

// LiveAuctions returns the size of the auctions active set.
func (s *Service) LiveAuctions() (uint64, error) {
	return s.liveAuctionCount.Get()
}
