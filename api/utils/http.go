// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/bitcountry/tempo/lifecycle"
	"github.com/bitcountry/tempo/lifecycle/reverts"
	"github.com/bitcountry/tempo/tempo"
)

// AccountHeader carries the account an operation is signed by.
const AccountHeader = "X-Account"

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// NotFound convenience method to create http not found error.
func NotFound(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusNotFound,
	}
}

// revertStatus maps a revert kind to the status it's responded with.
func revertStatus(kind reverts.Kind) int {
	switch kind {
	case reverts.KindValidation:
		return http.StatusBadRequest
	case reverts.KindNotFound:
		return http.StatusNotFound
	case reverts.KindState, reverts.KindConflict:
		return http.StatusConflict
	case reverts.KindUnauthorized:
		return http.StatusUnauthorized
	case reverts.KindResourceExhausted:
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

// HandlerFunc like http.HandlerFunc, bu it returns an error.
// If the returned error is httpError type, httpError.status will be responded.
// Reverts are responded with the status of their kind,
// otherwise http.StatusInternalServerError responded.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		var he *httpError
		if errors.As(err, &he) {
			if he.cause != nil {
				http.Error(w, he.cause.Error(), he.status)
			} else {
				w.WriteHeader(he.status)
			}
			return
		}
		if reverts.IsRevertErr(err) {
			http.Error(w, err.Error(), revertStatus(reverts.KindOf(err)))
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Origin returns the origin of the request. A request without the account
// header is unsigned.
func Origin(r *http.Request) (lifecycle.Origin, error) {
	value := r.Header.Get(AccountHeader)
	if value == "" {
		return lifecycle.Origin{}, nil
	}
	addr, err := tempo.ParseAddress(value)
	if err != nil {
		return lifecycle.Origin{}, HTTPError(errors.WithMessage(err, AccountHeader), http.StatusUnauthorized)
	}
	return lifecycle.Signed(*addr), nil
}

// ParseID parses a pool or auction id path parameter.
func ParseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M shortcut for type map[string]any.
type M map[string]any
