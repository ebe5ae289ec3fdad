// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/bitcountry/tempo/api/accounts"
	"github.com/bitcountry/tempo/api/auctions"
	"github.com/bitcountry/tempo/api/events"
	"github.com/bitcountry/tempo/api/middleware"
	apinode "github.com/bitcountry/tempo/api/node"
	"github.com/bitcountry/tempo/api/pools"
	"github.com/bitcountry/tempo/api/subscriptions"
	"github.com/bitcountry/tempo/api/utils"
	"github.com/bitcountry/tempo/log"
	"github.com/bitcountry/tempo/node"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	BacktraceLimit       uint32
	EventsLimit          uint64
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
}

// New return api router
func New(n *node.Node, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if opts.EventsLimit == 0 {
		opts.EventsLimit = 1000
	}
	if opts.EnableReqLogger == nil {
		opts.EnableReqLogger = &atomic.Bool{}
	}

	router := mux.NewRouter()

	accounts.New(n).
		Mount(router, "/accounts")
	pools.New(n).
		Mount(router, "/pools")
	auctions.New(n).
		Mount(router, "/auctions")
	events.New(n, opts.EventsLimit).
		Mount(router, "/events")
	apinode.New(n).
		Mount(router, "/node")
	subs := subscriptions.New(n, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", strings.ToLower(utils.AccountHeader)}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
