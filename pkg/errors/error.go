// Package errors carries typed error codes across chartsync package boundaries.
// Codes are grouped in ranges of one hundred; see ErrorCode.Category.
package errors

import (
	"errors"
	"fmt"
)

// Error is a failure tagged with a code. Cause is optional.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New returns an error without a cause.
func New(code ErrorCode, message string) *Error {
	return Wrap(code, message, nil)
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), nil)
}

// Wrap tags cause with code.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}

	return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// GetCode returns the code of the outermost *Error in the chain, or ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	var coded *Error
	if !errors.As(err, &coded) {
		return ErrCodeUnknown
	}

	return coded.Code
}

// HasCode reports whether GetCode(err) is code.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientDataError reports a series too short for its use, such as a chart with one bar.
type InsufficientDataError struct {
	Required int
	Actual   int
	Ticker   string
	Message  string
}

// NewInsufficientDataErrorf builds an InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, ticker, format string, args ...any) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Ticker:   ticker,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError reports whether err's chain holds an InsufficientDataError.
func IsInsufficientDataError(err error) bool {
	var short *InsufficientDataError

	return errors.As(err, &short)
}
