// Package errors provides the application error type used across the
// service. Errors carry a stable code for transport mapping, a human
// message, and an optional wrapped cause with a captured stack.
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
)

// AppError is the application error carried through all layers.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	Cause   error     `json:"-"`
	Stack   string    `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a copy of the error carrying extra detail text.
func (e *AppError) WithDetail(format string, args ...any) *AppError {
	clone := *e
	clone.Detail = fmt.Sprintf(format, args...)
	return &clone
}

// New creates an AppError with a captured stack.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Stack: captureStack(2)}
}

// Newf creates an AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Stack: captureStack(2)}
}

// Wrap annotates an existing error with a code and message. A nil err
// yields nil so call sites can wrap unconditionally.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err, Stack: captureStack(2)}
}

// Wrapf annotates an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err, Stack: captureStack(2)}
}

// ---------------------------------------------------------------------------
// Convenience constructors for the most common classes.
// ---------------------------------------------------------------------------

// NewValidation reports a failed precondition on a request field.
func NewValidation(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...), Stack: captureStack(2)}
}

// NewInvalidInput reports malformed input content.
func NewInvalidInput(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf(format, args...), Stack: captureStack(2)}
}

// NewNotFound reports a missing entity by kind and identifier.
func NewNotFound(kind, id string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found: %s", kind, id), Stack: captureStack(2)}
}

// NewInternal reports an unexpected internal failure.
func NewInternal(format string, args ...any) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: fmt.Sprintf(format, args...), Stack: captureStack(2)}
}

// NewUnavailable reports a dependency that is down or unreachable.
func NewUnavailable(component string) *AppError {
	return &AppError{Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("%s unavailable", component), Stack: captureStack(2)}
}

// NewTimeout reports an operation that exceeded its deadline.
func NewTimeout(operation string) *AppError {
	return &AppError{Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation), Stack: captureStack(2)}
}

// ---------------------------------------------------------------------------
// Inspection helpers.
// ---------------------------------------------------------------------------

// GetCode extracts the error code, ErrCodeUnknown for foreign errors.
func GetCode(err error) ErrorCode {
	var app *AppError
	if stderrors.As(err, &app) {
		return app.Code
	}
	return ErrCodeUnknown
}

// IsCode reports whether err carries the given code anywhere in its
// chain.
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		if app, ok := err.(*AppError); ok && app.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// IsNotFound reports whether err is any of the not-found codes.
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeNotFound) ||
		IsCode(err, ErrCodeAnalysisNotFound) ||
		IsCode(err, ErrCodeDocumentNotFound)
}

// Is delegates to the standard library for sentinel comparison.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As delegates to the standard library for type assertion on chains.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

func captureStack(skip int) string {
	var b strings.Builder
	for i := skip; i < skip+8; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", fn.Name(), file, line)
	}
	return b.String()
}
