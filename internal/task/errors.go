package task

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrUnknownPriority = errors.New("unknown priority")
	ErrInvalidDate     = errors.New("invalid due date")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ValidationError reports user input that cannot be turned into a task.
type ValidationError struct {
	Field string // input field the error refers to
	Err   error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// RangeError reports a move whose indices fall outside the task list.
// It signals a presenter bug rather than a user mistake.
type RangeError struct {
	From int
	To   int
	Len  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("move %d -> %d: %s for %d tasks", e.From, e.To, ErrIndexOutOfRange, e.Len)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrIndexOutOfRange
}
