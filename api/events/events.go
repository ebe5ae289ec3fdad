// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bitcountry/tempo/api/utils"
	"github.com/bitcountry/tempo/cache"
	"github.com/bitcountry/tempo/eventlog"
	"github.com/bitcountry/tempo/log"
	"github.com/bitcountry/tempo/node"
)

var logger = log.WithContext("pkg", "events-api")

const cacheSize = 512

type Events struct {
	node  *node.Node
	limit uint64
	// responses keyed by head and query, sealed events never change
	cache *cache.LRU[string, []*FilteredEvent]
}

func New(n *node.Node, limit uint64) *Events {
	c, err := cache.NewLRU[string, []*FilteredEvent](cacheSize)
	if err != nil {
		panic(err)
	}
	return &Events{
		node:  n,
		limit: limit,
		cache: c,
	}
}

func (e *Events) filter(ctx context.Context, filter *eventlog.Filter) ([]*FilteredEvent, error) {
	records, err := e.node.EventLog().Filter(ctx, filter)
	if err != nil {
		return nil, err
	}
	events := make([]*FilteredEvent, 0, len(records))
	for _, rec := range records {
		events = append(events, ConvertRecord(rec))
	}
	return events, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	filter, err := ParseFilter(query, e.limit)
	if err != nil {
		return utils.BadRequest(err)
	}

	head := e.node.Head()
	if filter.Range.To > head {
		filter.Range.To = head
	}
	if filter.Range.From > filter.Range.To {
		return utils.WriteJSON(w, []*FilteredEvent{})
	}

	key := strconv.FormatUint(uint64(head), 10) + "?" + query.Encode()
	events, err := e.cache.GetOrLoad(key, func(string) ([]*FilteredEvent, error) {
		return e.filter(req.Context(), filter)
	})
	if err != nil {
		return err
	}
	if changed, hit, miss := e.cache.Stats().Stats(); changed {
		logger.Debug("event cache stats", "hit", hit, "miss", miss)
	}
	return utils.WriteJSON(w, events)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
