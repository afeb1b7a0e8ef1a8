// Package errs contains sentinel errors shared by the store, service and HTTP layers.
package errs

import "errors"

var (
	// ErrInvalidInput indicates a malformed or missing request field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates a uniqueness violation (email or phone already taken).
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized indicates a missing or invalid bearer credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates a login with an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInternal indicates a store or hashing failure. Its text is the only
	// detail a client sees for such failures.
	ErrInternal = errors.New("internal server error")
)
