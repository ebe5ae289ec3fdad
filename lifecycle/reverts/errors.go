// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

var (
	ErrInvalidWindow = New(KindValidation, "invalid-window", "invalid block window")
	ErrZeroAmount    = New(KindValidation, "zero-amount", "amount must be greater than zero")
	ErrInvalidRate   = New(KindValidation, "invalid-rate", "reward rate out of range")
	ErrInvalidName   = New(KindValidation, "invalid-name", "invalid pool name")

	ErrPoolNotFound    = New(KindNotFound, "pool-not-found", "pool not found")
	ErrAuctionNotFound = New(KindNotFound, "auction-not-found", "auction not found")

	ErrNotActive           = New(KindState, "not-active", "not active")
	ErrNotStarted          = New(KindState, "not-started", "not started")
	ErrNotFinalized        = New(KindState, "not-finalized", "not finalized")
	ErrAlreadyAccrued      = New(KindState, "already-accrued", "reward already accrued")
	ErrLockedUntilFinalize = New(KindState, "locked-until-finalize", "stake locked until pool finalizes")
	ErrNothingToClaim      = New(KindState, "nothing-to-claim", "nothing to claim")

	ErrMonotonicity      = New(KindConflict, "monotonicity-violation", "end height must not decrease")
	ErrBidRejected       = New(KindConflict, "bid-rejected", "bid rejected")
	ErrInsufficientStake = New(KindConflict, "insufficient-stake", "insufficient stake")
	ErrInsufficientFunds = New(KindConflict, "insufficient-funds", "insufficient funds")
	ErrAlreadyScheduled  = New(KindConflict, "already-scheduled", "entry already scheduled")
	ErrBudgetExceeded    = New(KindConflict, "budget-exceeded", "reward exceeds budget")
	ErrExhausted         = New(KindResourceExhausted, "exhausted", "id space exhausted")
	ErrAmountOverflow    = New(KindResourceExhausted, "amount-overflow", "amount overflow")
	ErrUnauthorized      = New(KindUnauthorized, "unauthorized", "unauthorized origin")
	ErrCorruptIndex      = New(KindCorruptIndex, "corrupt-index", "expiry index corrupted")
)
