// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tempo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	addr := BytesToAddress([]byte("alice"))

	parsed, err := ParseAddress(addr.String())
	assert.Nil(t, err)
	assert.Equal(t, addr, *parsed)

	parsed, err = ParseAddress(strings.TrimPrefix(addr.String(), "0x"))
	assert.Nil(t, err)
	assert.Equal(t, addr, *parsed)

	_, err = ParseAddress("0x1234")
	assert.EqualError(t, err, "invalid length")
	_, err = ParseAddress("1x" + strings.TrimPrefix(addr.String(), "0x"))
	assert.EqualError(t, err, "invalid prefix")
}

func TestBytes32JSON(t *testing.T) {
	b := Blake2b([]byte("tempo"))

	data, err := json.Marshal(b)
	assert.Nil(t, err)
	assert.Equal(t, `"`+b.String()+`"`, string(data))

	var decoded Bytes32
	assert.Nil(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b, decoded)

	assert.NotNil(t, json.Unmarshal([]byte(`"0x12"`), &decoded))
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("bob"))

	data, err := json.Marshal(struct {
		Account Address `json:"account"`
	}{addr})
	assert.Nil(t, err)
	assert.Equal(t, `{"account":"`+addr.String()+`"}`, string(data))
}
