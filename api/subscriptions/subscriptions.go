// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/api/events"
	"github.com/bitcountry/tempo/api/utils"
	"github.com/bitcountry/tempo/co"
	"github.com/bitcountry/tempo/eventlog"
	"github.com/bitcountry/tempo/log"
	"github.com/bitcountry/tempo/node"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	node           *node.Node
	backtraceLimit uint32
	upgrader       *websocket.Upgrader
	done           chan struct{}
	goes           co.Goes
}

// New creates the event subscription service. A subscriber may resume from
// at most backtraceLimit blocks behind the head.
func New(n *node.Node, allowedOrigins []string, backtraceLimit uint32) *Subscriptions {
	return &Subscriptions{
		node:           n,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				origin = strings.ToLower(origin)
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// parsePos parses the height events are delivered after. It defaults to the head.
func (s *Subscriptions) parsePos(value string) (uint32, error) {
	head := s.node.Head()
	if value == "" {
		return head, nil
	}
	pos, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if uint32(pos) > head {
		return 0, utils.BadRequest(errors.New("pos: ahead of head"))
	}
	if head-uint32(pos) > s.backtraceLimit {
		return 0, utils.HTTPError(errors.New("pos: backtrace limit exceeded"), http.StatusForbidden)
	}
	return uint32(pos), nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	criteria, err := events.ParseCriteria(query)
	if err != nil {
		return utils.BadRequest(err)
	}
	pos, err := s.parsePos(query.Get("pos"))
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned after this point
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer func() { s.closeConn(conn, err) }()

	if err = s.pipe(req.Context(), conn, criteria, pos); err != nil {
		logger.Debug("error in websocket", "err", err)
	}
	return nil
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, err error) {
	var closeMsg []byte
	if err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	} else {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	}
	if err := conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(writeWait)); err != nil {
		logger.Debug("write close message", "err", err)
	}
	if err := conn.Close(); err != nil {
		logger.Debug("close websocket", "err", err)
	}
}

// pipe pushes the events sealed after pos, and keeps pushing newly sealed
// events until the peer leaves or the service closes.
func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, criteria *eventlog.Criteria, pos uint32) error {
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	s.goes.Go(func() {
		defer close(closed)
		for {
			// incoming messages are discarded, reading only serves control frames
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	})

	filter := &eventlog.Filter{Order: eventlog.ASC}
	if criteria != nil {
		filter.CriteriaSet = []*eventlog.Criteria{criteria}
	}

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		sealed := s.node.Sealed()
		if head := s.node.Head(); head > pos {
			filter.Range = &eventlog.Range{From: pos + 1, To: head}
			records, err := s.node.EventLog().Filter(ctx, filter)
			if err != nil {
				return err
			}
			for _, rec := range records {
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return err
				}
				if err := conn.WriteJSON(events.ConvertRecord(rec)); err != nil {
					return err
				}
			}
			pos = head
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ctx.Done():
			return nil
		case <-sealed:
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close ends every subscription.
func (s *Subscriptions) Close() {
	close(s.done)
	s.goes.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
