package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when an insert hits the unique email
	// constraint on accounts.
	ErrDuplicateEmail = errors.New("duplicate email")
)
