package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Pipeline error taxonomy. ErrIO and ErrFormat abort a run; ErrRecordInvalid and
// ErrUnsupportedKind are per-record and never escape the controller as failures.
var (
	ErrIO              = errors.New("i/o error")
	ErrFormat          = errors.New("container format error")
	ErrRecordInvalid   = errors.New("record validation failed")
	ErrUnsupportedKind = errors.New("unsupported kind tag")
	ErrCancelled       = errors.New("run cancelled")
	ErrBusy            = errors.New("a run is already in progress")
	ErrInvalidInput    = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IOError wraps a filesystem failure as a fatal run error.
func IOError(message string, cause error) error {
	return NewAppError("IO_ERROR", message, fmt.Errorf("%w: %w", ErrIO, cause))
}

// FormatError marks a container-structure failure as a fatal run error.
func FormatError(message string, cause error) error {
	if cause == nil {
		cause = ErrFormat
	} else {
		cause = fmt.Errorf("%w: %w", ErrFormat, cause)
	}
	return NewAppError("FORMAT_ERROR", message, cause)
}
