// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitcountry/tempo/log"
)

// mockLogger is a simple logger implementation for testing purposes
type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) With(_ ...any) log.Logger {
	return m
}

func (m *mockLogger) Log(_ slog.Level, _ string, _ ...any) {}

func (m *mockLogger) Trace(_ string, _ ...any) {}

func (m *mockLogger) Write(_ slog.Level, _ string, _ ...any) {}

func (m *mockLogger) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (m *mockLogger) Handler() slog.Handler { return nil }

func (m *mockLogger) New(_ ...any) log.Logger { return m }

func (m *mockLogger) Debug(_ string, _ ...any) {}

func (m *mockLogger) Error(_ string, _ ...any) {}

func (m *mockLogger) Crit(_ string, _ ...any) {}

func (m *mockLogger) Info(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) Warn(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func respond(status int, delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(delay)
		w.WriteHeader(status)
		w.Write([]byte(http.StatusText(status)))
	}
}

func TestRequestLoggerHandler(t *testing.T) {
	tests := []struct {
		name                 string
		handler              http.HandlerFunc
		enabled              bool
		slowQueriesThreshold time.Duration
		log5xxErrors         bool
		shouldLog            bool
	}{
		{"enabled", respond(http.StatusOK, 0), true, 0, false, true},
		{"disabled", respond(http.StatusOK, 0), false, 0, false, false},
		{"slow request", respond(http.StatusOK, 15*time.Millisecond), false, 10 * time.Millisecond, false, true},
		{"fast request", respond(http.StatusOK, 0), false, time.Second, false, false},
		{"5xx logged", respond(http.StatusInternalServerError, 0), false, 0, true, true},
		{"5xx not logged", respond(http.StatusInternalServerError, 0), false, 0, false, false},
		{"4xx not logged", respond(http.StatusConflict, 0), false, 0, true, false},
		{"implicit 200", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("OK")) }, false, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLog := &mockLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			handler := RequestLoggerMiddleware(mockLog, &enabled, tt.slowQueriesThreshold, tt.log5xxErrors)(tt.handler)

			reqBody := `{"amount":100}`
			req := httptest.NewRequest(http.MethodPost, "http://example.com/pools/0/stake", strings.NewReader(reqBody))
			req.Header.Set("X-Account", "0x0000000000000000000000000000000000616c6963")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if !tt.shouldLog {
				assert.Empty(t, mockLog.loggedData)
				return
			}
			assert.Contains(t, mockLog.loggedData, "http://example.com/pools/0/stake")
			assert.Contains(t, mockLog.loggedData, http.MethodPost)
			assert.Contains(t, mockLog.loggedData, reqBody)
			assert.Contains(t, mockLog.loggedData, "0x0000000000000000000000000000000000616c6963")
			assert.Contains(t, mockLog.loggedData, rr.Code)
		})
	}
}

func TestStatusRecorder(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := NewStatusRecorder(rr)
	assert.Equal(t, http.StatusOK, rec.Status)

	rec.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, rec.Status)
	assert.Equal(t, http.StatusTeapot, rr.Code)

	_, _, err := rec.Hijack()
	assert.EqualError(t, err, "hijack not supported")
}
