// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIntFromUInt64Flag(t *testing.T) {
	v, err := readIntFromUInt64Flag(3)
	assert.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = readIntFromUInt64Flag(math.MaxUint64)
	assert.Error(t, err)
}

func TestLoadGenesis(t *testing.T) {
	gen, err := loadGenesis("")
	require.NoError(t, err)
	assert.Equal(t, "devnet", gen.Name)

	_, err = loadGenesis(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: custom\ntreasury: \"0x0000000000000000000000007472656173757279\"\n"), 0o600))
	gen, err = loadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", gen.Name)
}

func TestMakeInstanceDir(t *testing.T) {
	gen, err := loadGenesis("")
	require.NoError(t, err)

	dataDir := t.TempDir()
	dir, err := makeInstanceDir(dataDir, gen)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "instance-devnet"), dir)
	assert.DirExists(t, dir)

	_, err = makeInstanceDir("", gen)
	assert.Error(t, err)
}
