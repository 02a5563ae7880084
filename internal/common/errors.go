// Package common holds the errors, retry loop and logging setup shared by
// stockroom's packages.
package common

import (
	"errors"
	"fmt"
)

// Storage lookups and writes.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Request lifecycle. The HTTP layer maps these to 400 and 409.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Report export and delivery.
var (
	ErrExportFailed   = errors.New("export failed")
	ErrDeliveryFailed = errors.New("delivery failed")
)

// Settings.
var (
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError pairs a message meant for the terminal with the underlying
// cause, which is printed separately.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps err with a message for the user.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
