package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a concurrent write to the same row aborted the transaction.
	ErrConflict = errors.New("concurrent write conflict")
	// ErrAlreadyExists is returned when a unique constraint is violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrPasswordTooLong is returned by hashers that cannot accept the password length.
	ErrPasswordTooLong = errors.New("password too long")
)
