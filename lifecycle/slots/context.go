// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package slots provides typed storage variables and mappings on top of state.
package slots

import (
	"github.com/bitcountry/tempo/state"
	"github.com/bitcountry/tempo/tempo"
)

// Context binds a storage space address to a state.
type Context struct {
	address tempo.Address
	state   *state.State
}

func NewContext(address tempo.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() tempo.Address {
	return c.address
}
