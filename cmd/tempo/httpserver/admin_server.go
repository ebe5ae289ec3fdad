// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/api/admin"
	"github.com/bitcountry/tempo/api/admin/health"
	"github.com/bitcountry/tempo/co"
	"github.com/bitcountry/tempo/node"
)

// StartAdminServer serves the admin API of n on addr. The returned func stops
// the server and the health tracking.
func StartAdminServer(
	addr string,
	logLevel *slog.LevelVar,
	apiLogs *atomic.Bool,
	n *node.Node,
	blockInterval time.Duration,
) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}

	h := health.New(n)
	adminHandler := admin.New(logLevel, apiLogs, h, blockInterval)

	srv := &http.Server{Handler: adminHandler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/admin", func() {
		srv.Close()
		goes.Wait()
		h.Close()
	}, nil
}
