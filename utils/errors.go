package utils

import "fmt"

// NewError creates a new error with the given message.
func NewError(msg string) error {
	return fmt.Errorf("%s", msg)
}

// WrapError wraps an existing error with additional context, preserving it
// for errors.Is/errors.As via %w.
func WrapError(err error, msg string) error {
	return fmt.Errorf("%s: %w", msg, err)
}
