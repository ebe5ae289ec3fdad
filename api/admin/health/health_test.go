// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitcountry/tempo/test/testnode"
)

func TestHealth(t *testing.T) {
	n, closeNode, err := testnode.NewDefaultNode()
	require.NoError(t, err)
	defer closeNode()

	h := New(n)
	defer h.Close()

	status := h.Status(time.Hour)
	assert.True(t, status.Healthy)
	assert.Equal(t, uint32(0), status.LastSeal.Height)

	time.Sleep(10 * time.Millisecond)
	assert.False(t, h.Status(time.Millisecond).Healthy)

	_, err = n.Seal()
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return h.Status(time.Hour).LastSeal.Height == 1
	}, time.Second, 5*time.Millisecond)
}

func TestHealthAPI(t *testing.T) {
	n, closeNode, err := testnode.NewDefaultNode()
	require.NoError(t, err)
	defer closeNode()

	h := New(n)
	defer h.Close()

	router := mux.NewRouter()
	NewAPI(h, time.Hour).Mount(router, "/admin/health")

	get := func(query string) (*Status, int) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/health"+query, nil))
		var status Status
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
		return &status, rr.Code
	}

	status, code := get("")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, status.Healthy)
	assert.NotNil(t, status.LastSeal.Timestamp)

	time.Sleep(10 * time.Millisecond)
	status, code = get("?maxTimeBetweenSeals=1ms")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, status.Healthy)

	// unparsable tolerance falls back to the default
	_, code = get("?maxTimeBetweenSeals=soon")
	assert.Equal(t, http.StatusOK, code)
}
