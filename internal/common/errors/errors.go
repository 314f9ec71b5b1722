// internal/common/errors/errors.go

// Package errors provides standardized error handling for the answer pipeline.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Terminal conditions, surfaced to the caller.
	ErrCodeInvalidQuery    ErrorCode = "INVALID_QUERY"
	ErrCodeNoEvidenceFound ErrorCode = "NO_EVIDENCE_FOUND"

	// Degradations, absorbed inside the pipeline.
	ErrCodeStageDegraded   ErrorCode = "STAGE_DEGRADED"
	ErrCodeSynthesisFailed ErrorCode = "SYNTHESIS_FAILED"

	// Collaborator failures.
	ErrCodeSourceLookupFailed ErrorCode = "SOURCE_LOOKUP_FAILED"
	ErrCodeSourceSearchFailed ErrorCode = "SOURCE_SEARCH_FAILED"
	ErrCodeSourceTimeout      ErrorCode = "SOURCE_TIMEOUT"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is lets errors.Is match any StandardError carrying the same code.
func (e *StandardError) Is(target error) bool {
	other, ok := target.(*StandardError)
	return ok && other.Code == e.Code
}

// NewInvalidQueryError creates the terminal error for empty/blank input.
func NewInvalidQueryError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidQuery,
		Message:   "Query cannot be empty",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoEvidenceFoundError creates the terminal error for exhausted retrieval.
func NewNoEvidenceFoundError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoEvidenceFound,
		Message:   "No relevant information found",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStageDegradedError wraps a per-item failure that the pipeline absorbs.
func NewStageDegradedError(stage string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStageDegraded,
		Message:   fmt.Sprintf("Stage '%s' degraded", stage),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSynthesisFailedError wraps an unexpected rendering failure.
func NewSynthesisFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSynthesisFailed,
		Message:   "Answer synthesis failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceLookupFailedError creates a retryable document lookup error.
func NewSourceLookupFailedError(title string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceLookupFailed,
		Message:   "Document source lookup error",
		Details:   fmt.Sprintf("title: %s, error: %s", title, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceSearchFailedError creates a retryable keyword search error.
func NewSourceSearchFailedError(term string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceSearchFailed,
		Message:   "Document source search error",
		Details:   fmt.Sprintf("term: %s, error: %s", term, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceTimeoutError creates a retryable source timeout error.
func NewSourceTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceTimeout,
		Message:   "Document source timeout",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps any other unexpected failure.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Internal error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps error codes to response status codes. Only the two terminal
// codes surface as distinct client-visible categories; everything else is a
// generic server error.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidQuery:
		return http.StatusBadRequest
	case ErrCodeNoEvidenceFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsTerminal reports whether the code must reach the caller as an error
// instead of degrading to a low-confidence payload.
func IsTerminal(code ErrorCode) bool {
	return code == ErrCodeInvalidQuery || code == ErrCodeNoEvidenceFound
}
