// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tempo

// Constants of the lifecycle engine.
const (
	BlockInterval uint64 = 10 // default time interval between two consecutive blocks, in seconds.

	DefaultClosingWindow   uint32 = 5   // blocks before end in which an accepted bid extends the auction.
	DefaultAuctionDuration uint32 = 100 // auction length when no end height is given.

	DefaultRewardRate Rate = 100_000 // 10%

	MaxPoolNameLength = 64
)

// Storage spaces.
var (
	LifecycleSpace = BytesToAddress([]byte("lifecycle"))
	BalancesSpace  = BytesToAddress([]byte("balances"))
)
