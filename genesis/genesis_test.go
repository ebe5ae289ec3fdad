// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcountry/tempo/balances"
	"github.com/bitcountry/tempo/lvldb"
	"github.com/bitcountry/tempo/state"
	"github.com/bitcountry/tempo/tempo"
)

func TestDevnet(t *testing.T) {
	gen := NewDevnet()
	assert.Equal(t, "devnet", gen.Name)
	assert.Equal(t, tempo.BytesToAddress([]byte("treasury")), gen.Treasury)
	require.Len(t, gen.Accounts, 5)
	assert.Equal(t, Account{Address: tempo.BytesToAddress([]byte("alice")), Balance: 100000}, gen.Accounts[0])

	cfg := gen.EngineConfig()
	assert.Equal(t, uint32(5), cfg.ClosingWindow)
	assert.Equal(t, uint32(100), cfg.AuctionDuration)
	assert.Equal(t, tempo.PercentRate(10), cfg.DefaultRewardRate)
	assert.Equal(t, gen.Treasury, cfg.Treasury)
}

func TestBuild(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gen := NewDevnet()
	st := state.New(db)
	id, err := gen.Build(st)
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	acc, err := balances.New(st).Get(tempo.BytesToAddress([]byte("alice")))
	require.NoError(t, err)
	assert.Equal(t, uint64(100000), acc.Free)

	// deterministic
	other, err := gen.Build(state.New(db))
	require.NoError(t, err)
	assert.Equal(t, id, other)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "name: [devnet"},
		{"no name", `treasury: "0x0000000000000000000000007472656173757279"`},
		{"no treasury", "name: x"},
		{"bad address", "name: x\ntreasury: \"0x12\""},
		{"bad rate", "name: x\ntreasury: \"0x0000000000000000000000007472656173757279\"\nconfig:\n  defaultRewardRate: 1000001"},
		{"zero balance", "name: x\ntreasury: \"0x0000000000000000000000007472656173757279\"\naccounts:\n  - address: \"0x0000000000000000000000000000000000626f62\"\n    balance: 0"},
		{
			"duplicated",
			"name: x\ntreasury: \"0x0000000000000000000000007472656173757279\"\naccounts:\n" +
				"  - address: \"0x0000000000000000000000000000000000626f62\"\n    balance: 1\n" +
				"  - address: \"0x0000000000000000000000000000000000626f62\"\n    balance: 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, devnetYAML, 0o600))

	gen, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, NewDevnet(), gen)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
