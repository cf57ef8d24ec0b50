// Package errors provides the application error type used across all layers.
// Errors are built with a fluent builder, marked with a classification marker
// and mapped to HTTP responses by the error handler middleware. Import it
// aliased as ierr.
package errors

import (
	"github.com/cockroachdb/errors"
)

// Classification markers. Every error that crosses a layer boundary is
// marked with exactly one of these.
var (
	ErrValidation       = errors.New("validation_error")
	ErrNotFound         = errors.New("not_found")
	ErrAlreadyExists    = errors.New("already_exists")
	ErrPermissionDenied = errors.New("permission_denied")
	ErrDatabase         = errors.New("database_error")
	ErrSystem           = errors.New("system_error")
	ErrInternal         = errors.New("internal_error")
	ErrHTTPClient       = errors.New("http_client_error")
)

func IsValidation(err error) bool       { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool         { return errors.Is(err, ErrNotFound) }
func IsAlreadyExists(err error) bool    { return errors.Is(err, ErrAlreadyExists) }
func IsPermissionDenied(err error) bool { return errors.Is(err, ErrPermissionDenied) }
func IsDatabase(err error) bool         { return errors.Is(err, ErrDatabase) }
