// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/bitcountry/tempo/api/admin/apilogs"
	"github.com/bitcountry/tempo/api/admin/health"
	"github.com/bitcountry/tempo/api/admin/loglevel"
)

// New returns the admin router. It controls the log level and the request
// logs of the node, and reports its health.
func New(logLevel *slog.LevelVar, apiLogs *atomic.Bool, h *health.Health, blockInterval time.Duration) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")
	apilogs.New(apiLogs).Mount(sub, "/apilogs")
	health.NewAPI(h, blockInterval).Mount(sub, "/health")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
