// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"sort"

	"github.com/bitcountry/tempo/kv"
	"github.com/bitcountry/tempo/tempo"
)

// Stage abstracts the accumulated changes of a state.
type Stage struct {
	changes map[storageKey][]byte
}

// Len returns count of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

func (s *Stage) sortedKeys() []storageKey {
	keys := make([]storageKey, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].dbKey(), keys[j].dbKey()) < 0
	})
	return keys
}

// Hash computes the digest of all changes. Same changes always produce same hash.
func (s *Stage) Hash() tempo.Bytes32 {
	keys := s.sortedKeys()
	return tempo.Blake2bFn(func(w io.Writer) {
		for _, k := range keys {
			w.Write(k.dbKey())
			w.Write(s.changes[k])
		}
	})
}

// Commit writes all changes into the putter. Empty values are deleted.
func (s *Stage) Commit(putter kv.Putter) error {
	for _, k := range s.sortedKeys() {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = putter.Delete(k.dbKey())
		} else {
			err = putter.Put(k.dbKey(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	return nil
}
