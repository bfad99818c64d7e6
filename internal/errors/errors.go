// Package errors provides standardized domain errors with codes for the
// pipeline stages.
//
// Usage:
//
//	// In stages - return typed errors
//	if rec == nil {
//	    return errors.NotFoundf("book %s not in record set", key)
//	}
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrSourceData) {
//	    logger.Warn("skipping malformed source row", "error", err)
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeEnrichment:
//	        stats.Errors++
//	    case errors.CodeArtifact:
//	        return err
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the pipeline.
const (
	// CodeNotFound marks a lookup that matched nothing, locally or on
	// an external catalog.
	CodeNotFound Code = "NOT_FOUND"
	// CodeSourceData marks unusable rows in a source collection.
	CodeSourceData Code = "SOURCE_DATA"
	// CodeValidation marks a config or input that failed validation.
	CodeValidation Code = "VALIDATION"
	// CodeEnrichment marks a failed external metadata call.
	CodeEnrichment Code = "ENRICHMENT"
	// CodeEmbedding marks a failed embedding service call.
	CodeEmbedding Code = "EMBEDDING"
	// CodeIndex marks a vector index failure.
	CodeIndex Code = "INDEX"
	// CodeArtifact marks a failure reading or writing a JSON artifact.
	CodeArtifact Code = "ARTIFACT"
	// CodeInternal marks everything else.
	CodeInternal Code = "INTERNAL"
)

// Retryable reports whether an operation failing with this code is
// worth retrying on a later run. Source and validation problems are
// permanent until the operator fixes the input.
func (c Code) Retryable() bool {
	switch c {
	case CodeEnrichment, CodeEmbedding, CodeIndex, CodeArtifact, CodeInternal:
		return true
	default:
		return false
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Retryable reports whether this error's code is retryable.
func (e *Error) Retryable() bool {
	return e.Code.Retryable()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound   = &Error{Code: CodeNotFound, Message: "not found"}
	ErrSourceData = &Error{Code: CodeSourceData, Message: "bad source data"}
	ErrValidation = &Error{Code: CodeValidation, Message: "validation error"}
	ErrEnrichment = &Error{Code: CodeEnrichment, Message: "enrichment failed"}
	ErrEmbedding  = &Error{Code: CodeEmbedding, Message: "embedding failed"}
	ErrIndex      = &Error{Code: CodeIndex, Message: "index failure"}
	ErrArtifact   = &Error{Code: CodeArtifact, Message: "artifact failure"}
	ErrInternal   = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// SourceData creates a bad source data error.
func SourceData(msg string) *Error {
	return &Error{Code: CodeSourceData, Message: msg}
}

// SourceDataf creates a bad source data error with formatted message.
func SourceDataf(format string, args ...any) *Error {
	return &Error{Code: CodeSourceData, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Enrichment creates an enrichment error.
func Enrichment(msg string) *Error {
	return &Error{Code: CodeEnrichment, Message: msg}
}

// Enrichmentf creates an enrichment error with formatted message.
func Enrichmentf(format string, args ...any) *Error {
	return &Error{Code: CodeEnrichment, Message: fmt.Sprintf(format, args...)}
}

// Embedding creates an embedding error.
func Embedding(msg string) *Error {
	return &Error{Code: CodeEmbedding, Message: msg}
}

// Index creates an index error.
func Index(msg string) *Error {
	return &Error{Code: CodeIndex, Message: msg}
}

// Artifact creates an artifact error.
func Artifact(msg string) *Error {
	return &Error{Code: CodeArtifact, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
