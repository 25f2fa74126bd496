// Package api implements the HTTP transport for the reservation API.
// This file defines error types shared by all endpoint wrappers.  These
// sentinel values allow higher layers such as the sync controller to
// distinguish between different failure scenarios without inspecting
// response bodies themselves.
package api

import (
	"errors"
	"fmt"
)

// ErrNoToken is returned when an authenticated endpoint is called while
// no bearer token is available from the token source.  Callers should
// treat this as "not logged in" rather than as a server failure.
var ErrNoToken = errors.New("no access token available")

// Error describes a non-2xx response from the reservation API.  When the
// server includes a structured {"error": "..."} body, Message carries
// that text; otherwise Message is empty and only the status code is
// meaningful.  The login flow in particular surfaces Message to users.
type Error struct {
	Status  int    // HTTP status code of the response
	Message string // server-provided error text, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// AsError extracts an *Error from err, if one is present in its chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
