// internal/common/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeInferenceFailed      ErrorCode = "INFERENCE_FAILED"
	ErrCodeInferenceUnavailable ErrorCode = "INFERENCE_UNAVAILABLE"
	ErrCodeAggregationInternal  ErrorCode = "AGGREGATION_INTERNAL"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewValidationError creates a non-retryable request validation error.
// Validation failures are rejected before the cache or engine is touched.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInferenceError creates a dispatch-time inference failure describing
// the target endpoint. Exactly one dispatch attempt is made per request,
// so the error is reported without local recovery.
func NewInferenceError(endpoint string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInferenceFailed,
		Message:   "Inference dispatch failed",
		Details:   fmt.Sprintf("endpoint: %s, error: %s", endpoint, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInferenceUnavailableError reports that the engine is reachable but
// the configured model is not loaded. Surfaced by the health probe, not
// by dispatch.
func NewInferenceUnavailableError(model string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInferenceUnavailable,
		Message:   "Configured model is not loaded",
		Details:   fmt.Sprintf("model: %s, run: ollama pull %s", model, model),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAggregationInternalError reports an unexpected numeric or shape
// anomaly in a row, with the offending filter key for context. The
// aggregation path is a pure read, so whole requests may be retried.
func NewAggregationInternalError(filterKey, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAggregationInternal,
		Message:   "Aggregation failed on malformed row data",
		Details:   fmt.Sprintf("filterKey: %s, %s", filterKey, details),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the error code from err, or empty if err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidationFailed
}

// IsInference reports whether err is a dispatch-time inference failure.
func IsInference(err error) bool {
	return CodeOf(err) == ErrCodeInferenceFailed
}
