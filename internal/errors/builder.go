package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// InternalError is the concrete error carried through the application. It
// wraps a cause, a user-safe hint, optional reportable details and a
// classification marker.
type InternalError struct {
	cause   error
	hint    string
	details map[string]any
	marker  error
}

// NewError starts a builder from a message.
func NewError(message string) *InternalError {
	return &InternalError{cause: errors.New(message)}
}

// NewErrorf starts a builder from a formatted message.
func NewErrorf(format string, args ...any) *InternalError {
	return &InternalError{cause: errors.Newf(format, args...)}
}

// WithError starts a builder wrapping an existing error.
func WithError(err error) *InternalError {
	return &InternalError{cause: err}
}

// WithMessage prefixes the cause with additional context.
func (e *InternalError) WithMessage(message string) *InternalError {
	e.cause = errors.Wrap(e.cause, message)
	return e
}

// WithHint sets the user-safe message surfaced in HTTP responses.
func (e *InternalError) WithHint(hint string) *InternalError {
	e.hint = hint
	return e
}

func (e *InternalError) WithHintf(format string, args ...any) *InternalError {
	e.hint = fmt.Sprintf(format, args...)
	return e
}

// WithReportableDetails attaches structured details that are safe to return
// to API callers (ids, field names, limits).
func (e *InternalError) WithReportableDetails(details map[string]any) *InternalError {
	e.details = details
	return e
}

// Mark finalizes the builder with a classification marker and returns it as
// an error.
func (e *InternalError) Mark(marker error) error {
	e.marker = marker
	return e
}

func (e *InternalError) Error() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	if e.marker != nil {
		return e.marker.Error()
	}
	return "unknown error"
}

func (e *InternalError) Unwrap() error { return e.cause }

// Is matches against the classification marker so errors.Is(err, ErrNotFound)
// works regardless of the wrapped cause.
func (e *InternalError) Is(target error) bool {
	return e.marker != nil && errors.Is(e.marker, target)
}

// Hint walks the chain and returns the outermost user-safe hint.
func Hint(err error) string {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.hint
	}
	return ""
}

// ReportableDetails walks the chain and returns the outermost details map.
func ReportableDetails(err error) map[string]any {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.details
	}
	return nil
}
