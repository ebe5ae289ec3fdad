// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/api/utils"
	"github.com/bitcountry/tempo/log"
)

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

type LogLevel struct {
	logLevel *slog.LevelVar
}

func New(logLevel *slog.LevelVar) *LogLevel {
	return &LogLevel{
		logLevel: logLevel,
	}
}

func (l *LogLevel) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("get-log-level").
		HandlerFunc(utils.WrapHandlerFunc(l.handleGet))

	sub.Path("").
		Methods(http.MethodPost).
		Name("post-log-level").
		HandlerFunc(utils.WrapHandlerFunc(l.handlePost))
}

func (l *LogLevel) response() *Response {
	return &Response{CurrentLevel: log.LevelString(l.logLevel.Level())}
}

func (l *LogLevel) handleGet(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, l.response())
}

func (l *LogLevel) handlePost(w http.ResponseWriter, r *http.Request) error {
	var req Request
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "Invalid request body"))
	}

	level, ok := levels[req.Level]
	if !ok {
		return utils.BadRequest(errors.New("Invalid verbosity level"))
	}
	l.logLevel.Set(level)

	return utils.WriteJSON(w, l.response())
}
