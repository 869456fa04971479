// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a missing or rejected bearer credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidToken indicates a token whose signature, encoding or claims are invalid.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidCredentials indicates a failed sign in. The message never tells
	// which factor was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailAlreadyExists indicates a sign up for an email that is already registered.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., slug taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotOwner indicates that the acting identity is not the author of the resource.
	ErrNotOwner = errors.New("not owner")

	// ErrValidation indicates malformed input rejected at the boundary.
	ErrValidation = errors.New("validation")

	// ErrStore indicates a backend failure (connectivity, driver errors).
	ErrStore = errors.New("store")
)

// Error attaches a client-facing message to one of the sentinel kinds.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an *Error of the given kind with a formatted message.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Message returns the client-facing message of err, or "" if it carries none.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return ""
}

// ConflictError is a unique constraint violation reported by the store.
// Key names the violated constraint.
type ConflictError struct {
	Key string
}

func (e *ConflictError) Error() string {
	if e.Key == "" {
		return "Key already exists"
	}
	return e.Key + " already exists"
}

// Is makes ConflictError match ErrAlreadyExists.
func (e *ConflictError) Is(target error) bool { return target == ErrAlreadyExists }

// StoreError wraps a backend failure with the failing operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "store: " + e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// Is makes StoreError match ErrStore.
func (e *StoreError) Is(target error) bool { return target == ErrStore }

// Store wraps err as a *StoreError; nil stays nil.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
