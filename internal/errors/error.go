package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime   Category = "runtime"
	CategoryStructure Category = "structure"
	CategoryProtocol  Category = "protocol"
	CategoryConfig    Category = "config"
	CategoryArchive   Category = "archive"
	CategoryCLI       Category = "cli"
)

// MotionError is a structured error with a code, suggestion and documentation.
type MotionError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *MotionError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *MotionError) Unwrap() error {
	return e.Wrapped
}

// Is matches another MotionError with the same code.
func (e *MotionError) Is(target error) bool {
	t, ok := target.(*MotionError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *MotionError) WithSuggestion(s string) *MotionError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *MotionError) WithDetail(d string) *MotionError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *MotionError) WithDetailf(format string, args ...any) *MotionError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *MotionError) Wrap(err error) *MotionError {
	e.Wrapped = err
	return e
}

// New creates a MotionError from a registered error code.
func New(code string) *MotionError {
	template, ok := registry[code]
	if !ok {
		return &MotionError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &MotionError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new MotionError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *MotionError {
	return &MotionError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a MotionError.
func FromError(err error, code string) *MotionError {
	if err == nil {
		return nil
	}
	if me, ok := err.(*MotionError); ok {
		return me
	}
	return New(code).Wrap(err)
}

// Code returns the code of err if it is (or wraps) a MotionError.
func Code(err error) string {
	for err != nil {
		if me, ok := err.(*MotionError); ok {
			return me.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
