// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

// Position is the stake of one account in one pool.
type Position struct {
	Staked  uint64
	Accrued uint64 // accrued and not yet claimed reward
}

func (p *Position) IsEmpty() bool {
	return p.Staked == 0 && p.Accrued == 0
}

// Totals are the per pool aggregates.
type Totals struct {
	Staked        uint64
	Accrued       bool   // reward accrual happened
	Budget        uint64 // floor(staked × rate) at accrual
	Distributed   uint64 // sum of per account rewards
	Undistributed uint64 // rounding remainder kept by the pool
	Claimed       uint64
}

// Accrual summarizes a reward accrual.
type Accrual struct {
	Pool          uint64
	Stakers       uint64
	Budget        uint64
	Distributed   uint64
	Undistributed uint64
}
