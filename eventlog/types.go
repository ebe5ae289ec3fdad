// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/lifecycle/event"
	"github.com/bitcountry/tempo/tempo"
)

// Record is an event stored in the archive.
type Record struct {
	Height    uint32
	Index     uint32
	Kind      event.Kind
	Namespace string
	Entity    uint64
	Account   *tempo.Address // nil if the event concerns no account
	Data      []byte         // json encoded event
}

func newRecord(height, index uint32, ev event.Event) (*Record, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %v", ev.Kind())
	}
	ns, id := ev.Entity()
	rec := &Record{
		Height:    height,
		Index:     index,
		Kind:      ev.Kind(),
		Namespace: ns,
		Entity:    id,
		Data:      data,
	}
	if acc := ev.Account(); !acc.IsZero() {
		rec.Account = &acc
	}
	return rec, nil
}

// Event decodes the stored event.
func (r *Record) Event() (event.Event, error) {
	decode, ok := decoders[r.Kind]
	if !ok {
		return nil, errors.Errorf("unknown event kind %q", r.Kind)
	}
	ev, err := decode(r.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %v", r.Kind)
	}
	return ev, nil
}

func decodeAs[T event.Event](data []byte) (event.Event, error) {
	var ev T
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return ev, nil
}

var decoders = map[event.Kind]func([]byte) (event.Event, error){
	event.KindPoolCreated:      decodeAs[event.PoolCreated],
	event.KindAuctionCreated:   decodeAs[event.AuctionCreated],
	event.KindBidAccepted:      decodeAs[event.BidAccepted],
	event.KindBidRejected:      decodeAs[event.BidRejected],
	event.KindAuctionExtended:  decodeAs[event.AuctionExtended],
	event.KindAuctionFinalized: decodeAs[event.AuctionFinalized],
	event.KindPoolFinalized:    decodeAs[event.PoolFinalized],
	event.KindStaked:           decodeAs[event.Staked],
	event.KindUnstaked:         decodeAs[event.Unstaked],
	event.KindClaimed:          decodeAs[event.Claimed],
	event.KindFinalizeFailed:   decodeAs[event.FinalizeFailed],
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive height range. To is ignored if less than From.
type Range struct {
	From uint32
	To   uint32
}

// Criteria matches records on every non empty field.
type Criteria struct {
	Kind      *event.Kind
	Namespace string
	Entity    *uint64
	Account   *tempo.Address
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects records in Range matching any of CriteriaSet.
type Filter struct {
	Range       *Range
	CriteriaSet []*Criteria
	Order       Order
	Options     *Options
}
