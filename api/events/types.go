// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/eventlog"
	"github.com/bitcountry/tempo/lifecycle/event"
	"github.com/bitcountry/tempo/tempo"
)

// FilteredEvent is an archived event as responded.
type FilteredEvent struct {
	Height    uint32          `json:"height"`
	Index     uint32          `json:"index"`
	Kind      event.Kind      `json:"kind"`
	Namespace string          `json:"namespace"`
	Entity    uint64          `json:"entity"`
	Account   *tempo.Address  `json:"account,omitempty"`
	Data      json.RawMessage `json:"data"`
}

func ConvertRecord(rec *eventlog.Record) *FilteredEvent {
	return &FilteredEvent{
		Height:    rec.Height,
		Index:     rec.Index,
		Kind:      rec.Kind,
		Namespace: rec.Namespace,
		Entity:    rec.Entity,
		Account:   rec.Account,
		Data:      json.RawMessage(rec.Data),
	}
}

func isKnownKind(kind event.Kind) bool {
	for _, k := range event.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ParseCriteria parses the kind, namespace, entity and account query
// parameters. It returns nil if none is given.
func ParseCriteria(query url.Values) (*eventlog.Criteria, error) {
	var (
		criteria eventlog.Criteria
		given    bool
	)
	if s := query.Get("kind"); s != "" {
		kind := event.Kind(s)
		if !isKnownKind(kind) {
			return nil, errors.Errorf("kind: unknown event kind %q", s)
		}
		criteria.Kind = &kind
		given = true
	}
	if s := query.Get("namespace"); s != "" {
		if s != event.NamespacePool && s != event.NamespaceAuction {
			return nil, errors.Errorf("namespace: unknown namespace %q", s)
		}
		criteria.Namespace = s
		given = true
	}
	if s := query.Get("entity"); s != "" {
		entity, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, errors.WithMessage(err, "entity")
		}
		criteria.Entity = &entity
		given = true
	}
	if s := query.Get("account"); s != "" {
		account, err := tempo.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "account")
		}
		criteria.Account = account
		given = true
	}
	if !given {
		return nil, nil
	}
	return &criteria, nil
}

func parseUint(query url.Values, name string, def uint64) (uint64, error) {
	s := query.Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.WithMessage(err, name)
	}
	return v, nil
}

// ParseFilter parses the query of an event filter request. Limit defaults to
// and must not exceed maxLimit.
func ParseFilter(query url.Values, maxLimit uint64) (*eventlog.Filter, error) {
	criteria, err := ParseCriteria(query)
	if err != nil {
		return nil, err
	}
	from, err := parseUint(query, "from", 0)
	if err != nil {
		return nil, err
	}
	to, err := parseUint(query, "to", math.MaxUint32)
	if err != nil {
		return nil, err
	}
	if from > math.MaxUint32 || to > math.MaxUint32 {
		return nil, errors.New("range: height out of range")
	}
	if to < from {
		return nil, errors.New("range: to is less than from")
	}
	offset, err := parseUint(query, "offset", 0)
	if err != nil {
		return nil, err
	}
	limit, err := parseUint(query, "limit", maxLimit)
	if err != nil {
		return nil, err
	}
	if limit > maxLimit {
		return nil, errors.Errorf("limit: exceeds %d", maxLimit)
	}

	filter := &eventlog.Filter{
		Range:   &eventlog.Range{From: uint32(from), To: uint32(to)},
		Order:   eventlog.ASC,
		Options: &eventlog.Options{Offset: offset, Limit: limit},
	}
	switch order := eventlog.Order(query.Get("order")); order {
	case "", eventlog.ASC:
	case eventlog.DESC:
		filter.Order = eventlog.DESC
	default:
		return nil, errors.Errorf("order: unknown order %q", order)
	}
	if criteria != nil {
		filter.CriteriaSet = []*eventlog.Criteria{criteria}
	}
	return filter, nil
}
