package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNoData indicates the backend answered successfully but without
	// the expected payload (no course, no curriculum).
	ErrNoData = errors.New("no data in response")

	// ErrNoToken indicates an authenticated call was attempted without a
	// learner token. The request is not sent.
	ErrNoToken = errors.New("not signed in: no API token configured")
)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := http.StatusText(e.Code)
	if m := backendMessage(e.Body); m != "" {
		msg = m
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, msg)
}

// TransportError is a failure to reach the backend at all.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// IsUnauthorized reports whether err means the learner is not signed in or
// not allowed to make the call.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrNoToken) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden)
}

// backendMessage extracts {"message": "..."} or {"error": "..."} from an
// error body, falling back to a short plain-text body.
func backendMessage(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}
	if len(body) > 120 || strings.ContainsAny(body, "<\n") {
		return ""
	}
	return body
}
