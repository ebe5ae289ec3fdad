// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tempo

import (
	"math"
	"math/bits"
	"strconv"

	"github.com/holiman/uint256"
)

// RateDenominator is the number of parts a whole Rate is divided into.
const RateDenominator = 1_000_000

// Rate is a fraction in parts per million.
type Rate uint32

// PercentRate returns the rate of p percent. Rates too large to represent
// saturate, so they never pass Valid.
func PercentRate(p uint32) Rate {
	r := uint64(p) * (RateDenominator / 100)
	if r > math.MaxUint32 {
		return math.MaxUint32
	}
	return Rate(r)
}

// Valid reports whether the rate is within [0, 100%].
func (r Rate) Valid() bool {
	return r <= RateDenominator
}

// Apply returns floor(amount × r). The second return value is false on overflow.
func (r Rate) Apply(amount uint64) (uint64, bool) {
	x := new(uint256.Int).SetUint64(amount)
	x.Mul(x, uint256.NewInt(uint64(r)))
	x.Div(x, uint256.NewInt(RateDenominator))
	if !x.IsUint64() {
		return 0, false
	}
	return x.Uint64(), true
}

func (r Rate) String() string {
	return strconv.FormatFloat(float64(r)*100/RateDenominator, 'f', -1, 64) + "%"
}

// SafeAdd returns a+b, false if it overflows.
func SafeAdd(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// SafeSub returns a-b, false if it underflows.
func SafeSub(a, b uint64) (uint64, bool) {
	diff, borrow := bits.Sub64(a, b, 0)
	return diff, borrow == 0
}
