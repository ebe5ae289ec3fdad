// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the lifecycle storage space.
// It follows the flow as bellow:
//
//	          o
//	          |
//	 [ revertable state ]
//	          |
//	   [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ kv bulk ]
//	          |
//	   [ read-only kv ]
//
// Every storage slot is addressed by a space address and a 32 bytes key.
// An empty raw value means the slot is absent.
package state
