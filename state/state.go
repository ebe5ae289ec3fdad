// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/bitcountry/tempo/kv"
	"github.com/bitcountry/tempo/stackedmap"
	"github.com/bitcountry/tempo/tempo"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr tempo.Address
	key  tempo.Bytes32
}

// dbKey is the key in the underlying kv store.
func (k storageKey) dbKey() []byte {
	b := make([]byte, 0, len(k.addr)+len(k.key))
	return append(append(b, k.addr[:]...), k.key[:]...)
}

// State manages storage slots on top of a read-only kv source.
type State struct {
	src kv.Getter
	sm  *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object.
func New(src kv.Getter) *State {
	s := &State{src: src}
	s.sm = stackedmap.New(s.srcGetter)
	return s
}

// srcGetter implements stackedmap.MapGetter.
func (s *State) srcGetter(key storageKey) (rlp.RawValue, bool, error) {
	val, err := s.src.Get(key.dbKey())
	if err != nil {
		if s.src.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr tempo.Address, key tempo.Bytes32) (tempo.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return tempo.Bytes32{}, err
	}
	if len(raw) == 0 {
		return tempo.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return tempo.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, returns hash of raw data
		return tempo.Blake2b(raw), nil
	}
	return tempo.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr tempo.Address, key, value tempo.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr tempo.Address, key tempo.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr tempo.Address, key tempo.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr tempo.Address, key tempo.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr tempo.Address, key tempo.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage makes a stage object to compute hash of changes or commit them.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey][]byte)
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		changes[k] = v
		return true
	})
	return &Stage{changes: changes}
}
