// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lifecycle

import (
	"github.com/bitcountry/tempo/tempo"
)

// Config holds the numeric policy of the engine.
type Config struct {
	// ClosingWindow is the default anti-snipe window of auctions.
	ClosingWindow uint32
	// AuctionDuration is used when an auction is created without end height.
	AuctionDuration uint32
	// DefaultRewardRate is used when a pool is created without reward rate.
	DefaultRewardRate tempo.Rate
	// LockedUntilFinalize forbids unstaking from active pools.
	LockedUntilFinalize bool
	// Treasury pays pool rewards on claim.
	Treasury tempo.Address
}

// DefaultConfig returns the config with default values.
func DefaultConfig() Config {
	return Config{
		ClosingWindow:     tempo.DefaultClosingWindow,
		AuctionDuration:   tempo.DefaultAuctionDuration,
		DefaultRewardRate: tempo.DefaultRewardRate,
	}
}
