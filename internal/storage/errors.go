// Package storage declares the error values shared by the account store
// implementations.
package storage

import "errors"

var (
	// ErrAccountNotFound is returned when an operation names an account id
	// that has never been created.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountAlreadyExists is returned by Insert when the id is taken.
	// Account ids are never reused, so this is permanent for a given id.
	ErrAccountAlreadyExists = errors.New("account already exists")
)
