// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/kv"
	"github.com/bitcountry/tempo/tempo"
)

var (
	stateBucket = kv.Bucket("s")
	metaBucket  = kv.Bucket("m")

	headKey    = []byte("head")
	genesisKey = []byte("genesis")
)

var errNotFound = errors.New("not found")

// emptyGetter is a source without any value, used to build the genesis in isolation.
var emptyGetter kv.Getter = &struct {
	kv.GetFunc
	kv.HasFunc
	kv.IsNotFoundFunc
}{
	func([]byte) ([]byte, error) { return nil, errNotFound },
	func([]byte) (bool, error) { return false, nil },
	func(err error) bool { return errors.Is(err, errNotFound) },
}

func saveMeta(putter kv.Putter, head uint32, genesis *tempo.Bytes32) error {
	meta := metaBucket.NewPutter(putter)
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], head)
	if err := meta.Put(headKey, buf[:]); err != nil {
		return err
	}
	if genesis != nil {
		return meta.Put(genesisKey, genesis.Bytes())
	}
	return nil
}

// loadMeta returns the head height and the genesis id. The last return value
// is false if the store is empty.
func loadMeta(getter kv.Getter) (uint32, tempo.Bytes32, bool, error) {
	meta := metaBucket.NewGetter(getter)
	head, err := meta.Get(headKey)
	if err != nil {
		if meta.IsNotFound(err) {
			return 0, tempo.Bytes32{}, false, nil
		}
		return 0, tempo.Bytes32{}, false, errors.Wrap(err, "load head")
	}
	if len(head) != 4 {
		return 0, tempo.Bytes32{}, false, errors.Errorf("invalid head length %d", len(head))
	}
	id, err := meta.Get(genesisKey)
	if err != nil {
		return 0, tempo.Bytes32{}, false, errors.Wrap(err, "load genesis id")
	}
	return binary.BigEndian.Uint32(head), tempo.BytesToBytes32(id), true, nil
}
