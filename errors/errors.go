// Package errors defines the error taxonomy shared by the spliterator and
// stream packages.
//
// Every failure the engine reports is an *Error carrying a Code. Errors that
// happen while several actions run to completion (close handlers, sibling
// tasks of a parallel evaluation) keep the first failure as the primary error
// and attach the others as suppressed errors, in the order they were observed.
package errors

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Code classifies an Error.
type Code string

const (
	// CodeState is reported when a pipeline or builder is used in a state that
	// does not allow the call: a spent stream, a closed stream, a finished builder.
	CodeState Code = "STATE"
	// CodeArgument is reported for invalid arguments: nil functions, negative counts.
	CodeArgument Code = "ARGUMENT"
	// CodeConcurrentModification is reported when a source notices that its
	// backing store changed structurally during traversal.
	CodeConcurrentModification Code = "CONCURRENT_MODIFICATION"
	// CodeUserFunction wraps a panic raised by a caller supplied function.
	CodeUserFunction Code = "USER_FUNCTION"
	// CodeCanceled is reported when the context of a terminal operation ends
	// before the evaluation does.
	CodeCanceled Code = "CANCELED"
	// CodeClose wraps a failure of a close handler.
	CodeClose Code = "CLOSE"
)

// Error is the error type returned by the engine.
type Error struct {
	// Code is the machine readable class of the error.
	Code Code
	// Message is a human readable description.
	Message string
	// Cause is the underlying error, if any.
	Cause error
	// Stack holds the goroutine stack captured when a panic was recovered.
	Stack []byte

	suppressed []error
}

var (
	// ErrStreamLinked is returned when a stream that already has a downstream
	// stage, or was already consumed by a terminal operation, is used again.
	ErrStreamLinked = New(CodeState, "stream has already been operated upon or closed")
	// ErrStreamClosed is returned when a closed stream is evaluated or extended.
	ErrStreamClosed = New(CodeState, "stream is closed")
	// ErrBuilderClosed is returned when a builder is modified after Build.
	ErrBuilderClosed = New(CodeState, "builder has already been built")
)

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// State creates a CodeState error.
func State(message string) *Error { return New(CodeState, message) }

// Argument creates a CodeArgument error.
func Argument(format string, args ...any) *Error { return Newf(CodeArgument, format, args...) }

// ConcurrentModification creates a CodeConcurrentModification error.
func ConcurrentModification(format string, args ...any) *Error {
	return Newf(CodeConcurrentModification, format, args...)
}

// Error returns the message of the error, followed by its cause.
func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Cause != nil:
		return e.Cause.Error()
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	default:
		return e.Message
	}
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same code and message.
// This makes the sentinel errors usable with errors.Is even when the returned
// error is a fresh copy wrapping a cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Message == "" || e.Message == t.Message)
}

// WithCause sets the cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Suppress attaches err as a secondary failure. Nil errors are ignored.
func (e *Error) Suppress(err error) *Error {
	if err != nil && err != e {
		e.suppressed = append(e.suppressed, err)
	}
	return e
}

// Suppressed returns the secondary failures in the order they were attached.
func (e *Error) Suppressed() []error {
	return e.suppressed
}

// Suppressed returns the secondary failures attached to err, if err is or wraps an *Error.
func Suppressed(err error) []error {
	var e *Error
	if errors.As(err, &e) {
		return e.suppressed
	}
	return nil
}

// CodeOf returns the code of err, or the empty code if err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Recover turns a value obtained from recover() into an error.
// An *Error is returned unchanged, any other error becomes the cause of a
// CodeUserFunction error and any other value is formatted into its message.
func Recover(v any) *Error {
	switch x := v.(type) {
	case nil:
		return nil
	case *Error:
		return x
	case error:
		return &Error{Code: CodeUserFunction, Cause: x, Stack: debug.Stack()}
	default:
		return &Error{Code: CodeUserFunction, Message: fmt.Sprint(x), Stack: debug.Stack()}
	}
}

// Aggregate keeps the first failure as primary and suppresses the rest.
// The primary failure is wrapped in a fresh *Error so that suppressing never
// mutates an error value owned by someone else; the wrapper keeps the message
// and, for *Error causes, the code of the failure it wraps.
type Aggregate struct {
	code    Code
	primary *Error
}

// NewAggregate returns an empty aggregate that reports non-*Error failures with code.
func NewAggregate(code Code) *Aggregate {
	return &Aggregate{code: code}
}

// Add records err. Nil errors are ignored.
func (a *Aggregate) Add(err error) {
	if err == nil {
		return
	}
	if a.primary == nil {
		code := a.code
		var e *Error
		if errors.As(err, &e) {
			code = e.Code
		}
		a.primary = &Error{Code: code, Cause: err}
		return
	}
	a.primary.Suppress(err)
}

// Err returns the aggregated error, or nil when nothing failed.
func (a *Aggregate) Err() error {
	if a.primary == nil {
		return nil
	}
	return a.primary
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }
