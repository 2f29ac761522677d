package utils

import (
	"errors"
	"fmt"
)

// AppError wraps an operation, human-facing message, and underlying error.
// Line is the 1-based source line for row-level input failures, or zero.
type AppError struct {
	Op   string
	Msg  string
	Line int
	Err  error
}

func (e *AppError) Error() string {
	op := e.Op
	if e.Line > 0 {
		op = fmt.Sprintf("%s: line %d", e.Op, e.Line)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", op, e.Msg, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(op, msg string, err error) error {
	return &AppError{Op: op, Msg: msg, Err: err}
}

// NewLineError constructs an AppError pinned to a source line.
func NewLineError(op string, line int, msg string, err error) error {
	return &AppError{Op: op, Msg: msg, Line: line, Err: err}
}

// LineOf returns the source line carried by err, if any.
func LineOf(err error) (int, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Line > 0 {
		return appErr.Line, true
	}
	return 0, false
}
