package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a slug or id has no matching row.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthenticated is returned when a mutation is attempted without a verified identity.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrConflict is returned on a uniqueness violation during create.
	ErrConflict = errors.New("conflict")
	// ErrStaleReference is returned when a join target fails to resolve.
	ErrStaleReference = errors.New("stale reference")
	// ErrUpstreamUnavailable is returned when an external collaborator failed or timed out.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrInvalidCursor is returned when a pagination cursor cannot be decoded.
	ErrInvalidCursor = errors.New("invalid cursor")
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}
