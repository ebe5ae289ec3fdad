// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcountry/tempo/lifecycle/registry"
	"github.com/bitcountry/tempo/node"
	"github.com/bitcountry/tempo/tempo"
	"github.com/bitcountry/tempo/test/testnode"
)

var (
	ts    *httptest.Server
	tnode *node.Node
)

func TestPools(t *testing.T) {
	initPoolsServer(t)
	defer ts.Close()

	// the order matters, each test builds on the state left by the previous
	for _, tt := range []struct {
		name string
		fn   func(*testing.T)
	}{
		{"createPool", testCreatePool},
		{"createPoolInvalid", testCreatePoolInvalid},
		{"stake", testStake},
		{"stakeInvalid", testStakeInvalid},
		{"getPool", testGetPool},
		{"listByCountry", testListByCountry},
		{"claimAfterFinalize", testClaimAfterFinalize},
		{"unstake", testUnstake},
	} {
		t.Run(tt.name, tt.fn)
	}
}

func initPoolsServer(t *testing.T) {
	n, closeFn, err := testnode.NewDefaultNode()
	require.NoError(t, err)
	t.Cleanup(closeFn)
	tnode = n

	router := mux.NewRouter()
	New(n).Mount(router, "/pools")
	ts = httptest.NewServer(router)
}

func testCreatePool(t *testing.T) {
	body, status := testnode.HTTPPost(t, ts.URL+"/pools", &testnode.Alice, &CreatePool{
		Name:        "p1",
		Country:     7,
		StartHeight: 1,
		EndHeight:   3,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	receipt := testnode.DecodeJSON[Receipt](t, body)
	assert.Equal(t, uint64(0), receipt.ID)
	assert.Equal(t, uint32(1), receipt.Height)
}

func testCreatePoolInvalid(t *testing.T) {
	tests := []struct {
		name   string
		from   *tempo.Address
		body   any
		status int
	}{
		{"unsigned", nil, &CreatePool{Name: "p", StartHeight: 1, EndHeight: 3}, http.StatusUnauthorized},
		{"unknown field", &testnode.Alice, map[string]any{"name": "p", "foo": 1}, http.StatusBadRequest},
		{"invalid window", &testnode.Alice, &CreatePool{Name: "p", StartHeight: 3, EndHeight: 3}, http.StatusBadRequest},
		{"start in the past", &testnode.Alice, &CreatePool{Name: "p", StartHeight: 0, EndHeight: 3}, http.StatusBadRequest},
		{"invalid rate", &testnode.Alice, &CreatePool{Name: "p", StartHeight: 1, EndHeight: 3, RewardRate: tempo.RateDenominator + 1}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, status := testnode.HTTPPost(t, ts.URL+"/pools", tt.from, tt.body)
			assert.Equal(t, tt.status, status, string(body))
		})
	}
}

func testStake(t *testing.T) {
	body, status := testnode.HTTPPost(t, ts.URL+"/pools/0/stake", &testnode.Alice, &Amount{Amount: 100})
	require.Equal(t, http.StatusOK, status, string(body))
	body, status = testnode.HTTPPost(t, ts.URL+"/pools/0/stake", &testnode.Bob, &Amount{Amount: 300})
	require.Equal(t, http.StatusOK, status, string(body))

	body, status = testnode.HTTPGet(t, ts.URL+"/pools/0/positions/"+testnode.Alice.String())
	require.Equal(t, http.StatusOK, status, string(body))
	pos := testnode.DecodeJSON[Position](t, body)
	assert.Equal(t, uint64(100), pos.Staked)
	assert.Equal(t, uint64(0), pos.Accrued)
	assert.Equal(t, testnode.Alice, pos.Account)
}

func testStakeInvalid(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		body   any
		status int
	}{
		{"zero amount", "/pools/0/stake", &Amount{}, http.StatusBadRequest},
		{"unknown pool", "/pools/9/stake", &Amount{Amount: 1}, http.StatusNotFound},
		{"bad id", "/pools/x/stake", &Amount{Amount: 1}, http.StatusBadRequest},
		{"insufficient funds", "/pools/0/stake", &Amount{Amount: 1_000_000}, http.StatusConflict},
		{"unstake more than staked", "/pools/0/unstake", &Amount{Amount: 101}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, status := testnode.HTTPPost(t, ts.URL+tt.url, &testnode.Alice, tt.body)
			assert.Equal(t, tt.status, status, string(body))
		})
	}

	_, status := testnode.HTTPGet(t, ts.URL+"/pools/0/positions/0x12")
	assert.Equal(t, http.StatusBadRequest, status)
	_, status = testnode.HTTPGet(t, ts.URL+"/pools/9/positions/"+testnode.Alice.String())
	assert.Equal(t, http.StatusNotFound, status)
}

func testGetPool(t *testing.T) {
	body, status := testnode.HTTPGet(t, ts.URL+"/pools/0")
	require.Equal(t, http.StatusOK, status, string(body))
	pool := testnode.DecodeJSON[Pool](t, body)
	assert.Equal(t, "p1", pool.Name)
	assert.Equal(t, testnode.Alice, pool.Creator)
	assert.Equal(t, uint64(7), pool.Country)
	assert.Equal(t, tempo.PercentRate(10), pool.RewardRate)
	assert.Equal(t, registry.StatusActive, pool.Status)
	assert.Equal(t, uint64(400), pool.TotalStaked)
	assert.Equal(t, uint64(2), pool.Stakers)
	assert.False(t, pool.Accrued)
	assert.True(t, strings.Contains(string(body), `"status":"active"`))

	_, status = testnode.HTTPGet(t, ts.URL+"/pools/9")
	assert.Equal(t, http.StatusNotFound, status)
}

func testListByCountry(t *testing.T) {
	body, status := testnode.HTTPGet(t, ts.URL+"/pools?country=7")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []uint64{0}, *testnode.DecodeJSON[[]uint64](t, body))

	body, status = testnode.HTTPGet(t, ts.URL+"/pools?country=8")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]\n", string(body))

	_, status = testnode.HTTPGet(t, ts.URL+"/pools?country=x")
	assert.Equal(t, http.StatusBadRequest, status)
}

func testClaimAfterFinalize(t *testing.T) {
	// nothing accrued before the pool ends
	body, status := testnode.HTTPPost(t, ts.URL+"/pools/0/claim", &testnode.Alice, nil)
	assert.Equal(t, http.StatusConflict, status, string(body))

	for tnode.Head() < 3 {
		_, err := tnode.Seal()
		require.NoError(t, err)
	}

	body, status = testnode.HTTPGet(t, ts.URL+"/pools/0")
	require.Equal(t, http.StatusOK, status)
	pool := testnode.DecodeJSON[Pool](t, body)
	assert.Equal(t, registry.StatusFinalized, pool.Status)
	assert.True(t, pool.Accrued)
	assert.Equal(t, uint64(40), pool.Budget)
	assert.Equal(t, uint64(40), pool.Distributed)

	body, status = testnode.HTTPPost(t, ts.URL+"/pools/0/claim", &testnode.Bob, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	claimed := testnode.DecodeJSON[Claimed](t, body)
	assert.Equal(t, uint64(30), claimed.Amount)
	assert.Equal(t, uint32(4), claimed.Height)

	body, status = testnode.HTTPPost(t, ts.URL+"/pools/0/claim", &testnode.Bob, nil)
	assert.Equal(t, http.StatusConflict, status, string(body))

	// closed to new stake
	body, status = testnode.HTTPPost(t, ts.URL+"/pools/0/stake", &testnode.Alice, &Amount{Amount: 1})
	assert.Equal(t, http.StatusConflict, status, string(body))
}

func testUnstake(t *testing.T) {
	body, status := testnode.HTTPPost(t, ts.URL+"/pools/0/unstake", &testnode.Bob, &Amount{Amount: 300})
	require.Equal(t, http.StatusOK, status, string(body))

	body, status = testnode.HTTPGet(t, ts.URL+"/pools/0/positions/"+testnode.Bob.String())
	require.Equal(t, http.StatusOK, status)
	pos := testnode.DecodeJSON[Position](t, body)
	assert.Equal(t, uint64(0), pos.Staked)
	assert.Equal(t, uint64(0), pos.Accrued)
}
