// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the initial state of a network.
package genesis

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bitcountry/tempo/balances"
	"github.com/bitcountry/tempo/lifecycle"
	"github.com/bitcountry/tempo/state"
	"github.com/bitcountry/tempo/tempo"
)

//go:embed devnet.yaml
var devnetYAML []byte

// Genesis is the initial state and engine policy of a network.
type Genesis struct {
	Name     string        `yaml:"name"`
	Treasury tempo.Address `yaml:"treasury"`
	Config   Config        `yaml:"config"`
	Accounts []Account     `yaml:"accounts"`
}

// Config is the engine policy. Zero values take the defaults.
type Config struct {
	ClosingWindow       uint32     `yaml:"closingWindow"`
	AuctionDuration     uint32     `yaml:"auctionDuration"`
	DefaultRewardRate   tempo.Rate `yaml:"defaultRewardRate"`
	LockedUntilFinalize bool       `yaml:"lockedUntilFinalize"`
}

// Account is an initial allocation of free funds.
type Account struct {
	Address tempo.Address `yaml:"address"`
	Balance uint64        `yaml:"balance"`
}

// Parse decodes and validates a genesis in yaml.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Load reads the genesis file at path.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// NewDevnet returns the genesis of the development network.
func NewDevnet() *Genesis {
	gen, err := Parse(devnetYAML)
	if err != nil {
		panic(err)
	}
	return gen
}

// Validate checks the allocations and the policy.
func (g *Genesis) Validate() error {
	if g.Name == "" {
		return errors.New("name must be set")
	}
	if g.Treasury.IsZero() {
		return errors.New("treasury must be set")
	}
	if !g.Config.DefaultRewardRate.Valid() {
		return errors.Errorf("default reward rate %v out of range", g.Config.DefaultRewardRate)
	}
	seen := make(map[tempo.Address]bool, len(g.Accounts))
	var supply uint64
	for _, acc := range g.Accounts {
		if acc.Address.IsZero() {
			return errors.New("account address must be set")
		}
		if acc.Balance == 0 {
			return errors.Errorf("%v: balance must be a non-zero integer", acc.Address)
		}
		if seen[acc.Address] {
			return errors.Errorf("%v: duplicated account", acc.Address)
		}
		seen[acc.Address] = true

		var ok bool
		if supply, ok = tempo.SafeAdd(supply, acc.Balance); !ok {
			return errors.New("total supply overflows")
		}
	}
	return nil
}

// EngineConfig returns the engine config of the network.
func (g *Genesis) EngineConfig() lifecycle.Config {
	cfg := lifecycle.DefaultConfig()
	if g.Config.ClosingWindow != 0 {
		cfg.ClosingWindow = g.Config.ClosingWindow
	}
	if g.Config.AuctionDuration != 0 {
		cfg.AuctionDuration = g.Config.AuctionDuration
	}
	if g.Config.DefaultRewardRate != 0 {
		cfg.DefaultRewardRate = g.Config.DefaultRewardRate
	}
	cfg.LockedUntilFinalize = g.Config.LockedUntilFinalize
	cfg.Treasury = g.Treasury
	return cfg
}

// Build allocates the initial balances into st and returns the genesis id,
// the hash of the resulting changes.
func (g *Genesis) Build(st *state.State) (tempo.Bytes32, error) {
	bal := balances.New(st)
	for _, acc := range g.Accounts {
		if err := bal.Mint(acc.Address, acc.Balance); err != nil {
			return tempo.Bytes32{}, errors.Wrapf(err, "alloc %v", acc.Address)
		}
	}
	return st.Stage().Hash(), nil
}
