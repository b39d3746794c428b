package model

import "errors"

var (
	// ErrNotFound indicates a lookup by ID matched no record.
	ErrNotFound = errors.New("labportal: record not found")

	// ErrNoPrimaryEmail indicates a profile save without at least one
	// non-empty email address.
	ErrNoPrimaryEmail = errors.New("labportal: profile requires a primary email address")
)
