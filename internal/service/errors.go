package service

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionExpired is returned when the server rejects the session token.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotLoggedIn is returned when a task operation is attempted without a token.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrUnknownTask is returned when an operation references a task id that is
	// not in the local task list.
	ErrUnknownTask = errors.New("unknown task")
)

// RequestFailedError is any non-authorization failure of a remote call.
// Message is human-readable and safe to show to the user.
type RequestFailedError struct {
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *RequestFailedError) Error() string {
	return e.Message
}

func (e *RequestFailedError) Unwrap() error {
	return e.Err
}

// ValidationError is a local input rejection; no request was sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// IsSessionLost reports whether err means the user must log in again.
func IsSessionLost(err error) bool {
	return errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNotLoggedIn)
}
