package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not resolve by id, email or token.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a write would violate email uniqueness.
	ErrDuplicateEmail = errors.New("email already exists")
)
