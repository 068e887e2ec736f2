// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios. For example,
// ErrForbidden indicates that the current user is not the owner of the pet
// they are trying to modify, while ErrEmailExists signals that a signup
// collides with an already registered email address.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a referenced entity does not exist. Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a pet
// they do not own. Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when a signup uses an email that is already
// registered (case-insensitively). Handlers should translate this into an
// HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// isDuplicate reports whether err is a unique-key violation. MySQL reports
// these as error 1062; sqlite (used by the test suite) reports a
// "UNIQUE constraint failed" message.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
