package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrDuplicateApplication = errors.New("application already submitted for this job")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrRateLimited          = errors.New("rate limited")
	ErrNetwork              = errors.New("network error")
	ErrUpload               = errors.New("upload rejected")
)

// ValidationError lists every failing field of a rejected input
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a failure for field
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = msg
}

// OrNil returns nil when no field failed
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// FieldError is a shorthand for a single-field ValidationError
func FieldError(field, msg string) error {
	e := NewValidationError()
	e.Add(field, msg)
	return e
}

// UploadError rejects résumé metadata before it reaches the file service
type UploadError struct {
	Reason string
}

func (e *UploadError) Error() string { return "upload rejected: " + e.Reason }

func (e *UploadError) Unwrap() error { return ErrUpload }

// RateLimitError reports a 429 and how long the caller should back off
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter <= 0 {
		return "rate limited"
	}
	return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// ErrorCode returns the stable wire code for an error of the taxonomy
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrUpload):
		return "upload_error"
	case errors.Is(err, ErrDuplicateApplication):
		return "duplicate_application"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	default:
		return "internal_error"
	}
}
