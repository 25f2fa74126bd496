// Package apistub is an in-process reservation API server backed by an
// in-memory store.  It implements the same HTTP contract the real
// backend exposes and exists for two purposes: integration tests run
// the client against it through httptest, and cmd/apistub serves it as
// a local development backend.
//
// This file defines sentinel errors shared by the store and handlers.
// Handlers translate them into HTTP status codes.
package apistub

import "errors"

// ErrEmailExists is returned when registering with an email that is
// already taken.  Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when registering with a username that
// is already taken.  Handlers translate it into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

// ErrInvalidCredentials is returned when a login fails.  Handlers
// translate it into HTTP 401 without revealing which field was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserNotFound is returned when a referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrReservationNotFound is returned when a referenced reservation does
// not exist.  Handlers translate it into HTTP 404.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrForbidden is returned when the caller attempts an operation on a
// reservation they do not own.  Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")
