// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/bitcountry/tempo/api/middleware"
	"github.com/bitcountry/tempo/metrics"
)

var (
	metricHTTPReqCounter       = metrics.LazyLoadCounterVec("api_request_count", []string{"name", "code", "method"})
	metricHTTPReqDuration      = metrics.LazyLoadHistogramVec("api_duration_ms", []string{"name", "code", "method"}, metrics.BucketHTTPReqs)
	metricActiveWebsocketGauge = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
)

// metricsMiddleware records the count and duration of requests by route name.
// Websocket connections are counted while open.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			name      = "unknown"
			subscribe = ""
		)
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				name = tpl
			}
			if n := route.GetName(); n != "" {
				name = n
			}
			if name == "/subscriptions/events" {
				subscribe = "events"
			}
		}

		if subscribe != "" {
			metricActiveWebsocketGauge().AddWithLabel(1, map[string]string{"subject": subscribe})
			defer metricActiveWebsocketGauge().AddWithLabel(-1, map[string]string{"subject": subscribe})
		}

		now := time.Now()
		rec := middleware.NewStatusRecorder(w)
		next.ServeHTTP(rec, r)

		labels := map[string]string{"name": name, "code": strconv.Itoa(rec.Status), "method": r.Method}
		metricHTTPReqCounter().AddWithLabel(1, labels)
		metricHTTPReqDuration().ObserveWithLabels(time.Since(now).Milliseconds(), labels)
	})
}
