// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies a revert.
type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindState
	KindConflict
	KindResourceExhausted
	KindUnauthorized
	KindCorruptIndex
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not-found"
	case KindState:
		return "state"
	case KindConflict:
		return "conflict"
	case KindResourceExhausted:
		return "resource-exhausted"
	case KindUnauthorized:
		return "unauthorized"
	case KindCorruptIndex:
		return "corrupt-index"
	default:
		return "unknown"
	}
}

// ErrRevert is a failure caused by the caller's input or the lifecycle state.
// Reverts leave state untouched.
type ErrRevert struct {
	kind    Kind
	code    string
	message string
}

func New(kind Kind, code, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		code:    code,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func (e *ErrRevert) Code() string {
	return e.code
}

// Is matches reverts with the same code, regardless of the detailed message.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	return e.code == t.code
}

// WithReason returns a copy carrying the detailed reason.
func (e *ErrRevert) WithReason(reason string) *ErrRevert {
	if reason == "" {
		return e
	}
	return &ErrRevert{
		kind:    e.kind,
		code:    e.code,
		message: e.message + ": " + reason,
	}
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert in err's chain, or zero if err is not a revert.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return 0
}
