// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slots

import "github.com/pkg/errors"

var (
	errOverflow  = errors.New("slots: uint64 overflow")
	errUnderflow = errors.New("slots: uint64 underflow")
)

// IsOverflow reports whether err is caused by an arithmetic overflow or underflow.
func IsOverflow(err error) bool {
	cause := errors.Cause(err)
	return cause == errOverflow || cause == errUnderflow
}
