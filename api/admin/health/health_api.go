// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/bitcountry/tempo/api/utils"
)

const delayBuffer = 5 * time.Second

type API struct {
	health *Health
	// default tolerance, overridden by the maxTimeBetweenSeals query
	maxTimeBetweenSeals time.Duration
}

// NewAPI serves the health of h. A node is healthy while it seals blocks
// at least once per blockInterval plus a buffer.
func NewAPI(h *Health, blockInterval time.Duration) *API {
	return &API{
		health:              h,
		maxTimeBetweenSeals: blockInterval + delayBuffer,
	}
}

func (a *API) handleGetHealth(w http.ResponseWriter, r *http.Request) error {
	maxTimeBetweenSeals := a.maxTimeBetweenSeals
	if s := r.URL.Query().Get("maxTimeBetweenSeals"); s != "" {
		if parsed, err := time.ParseDuration(s); err == nil {
			maxTimeBetweenSeals = parsed
		}
	}

	status := a.health.Status(maxTimeBetweenSeals)
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	return utils.WriteJSON(w, status)
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetHealth))
}
