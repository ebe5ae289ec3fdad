// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testnode

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitcountry/tempo/tempo"
)

// HTTPGet gets url and returns the response body and status.
func HTTPGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

// HTTPPost posts obj encoded in JSON to url, signed by from unless it's nil,
// and returns the response body and status.
func HTTPPost(t *testing.T, url string, from *tempo.Address, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if from != nil {
		req.Header.Set("X-Account", from.String())
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

// DecodeJSON decodes body into a new T.
func DecodeJSON[T any](t *testing.T, body []byte) *T {
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return &v
}
