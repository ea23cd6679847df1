package models

import "errors"

var (
	// ErrNotFound covers both a missing record and a record owned by someone
	// else; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken signals a duplicate email on account creation.
	ErrEmailTaken = errors.New("email already registered")
)

// ValidationError is a client error: the request was understood but carries
// invalid or missing fields.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Invalid builds a ValidationError with the given message.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
