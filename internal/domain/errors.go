package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Document ingestion errors
	CodeDocumentCorrupt        ErrorCode = "DOCUMENT_CORRUPT"
	CodeDocumentEmptyOrScanned ErrorCode = "DOCUMENT_EMPTY_OR_SCANNED"

	// Quiz generation errors
	CodeGenerationUnavailable ErrorCode = "GENERATION_UNAVAILABLE"
	CodeGenerationMalformed   ErrorCode = "GENERATION_MALFORMED"
	CodeGenerationSchema      ErrorCode = "GENERATION_SCHEMA"

	// Persistence errors
	CodeWriteFailed ErrorCode = "WRITE_FAILED"

	// Session errors
	CodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	CodeQuizNotFound      ErrorCode = "QUIZ_NOT_FOUND"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper constructors for common errors

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

// NewDocumentCorruptError signals a buffer that could not be parsed as a
// valid document.
func NewDocumentCorruptError(cause error) *DomainError {
	return NewError(CodeDocumentCorrupt, "Document could not be parsed; it may be corrupt or truncated", cause)
}

// NewDocumentEmptyOrScannedError signals a document with no usable text
// layer (an image scan, or simply empty).
func NewDocumentEmptyOrScannedError() *DomainError {
	return NewError(CodeDocumentEmptyOrScanned, "Document has no extractable text; it looks empty or scanned", nil)
}

// NewGenerationUnavailableError signals a transient failure of the
// generative-model service. These are the only generation errors worth
// retrying.
func NewGenerationUnavailableError(cause error) *DomainError {
	return NewError(CodeGenerationUnavailable, "Generative model service is unavailable", cause)
}

// NewGenerationMalformedError signals a model response that was empty or
// not valid JSON.
func NewGenerationMalformedError(cause error) *DomainError {
	return NewError(CodeGenerationMalformed, "Generative model returned a malformed response", cause)
}

// NewGenerationSchemaError signals a model response that parsed as JSON but
// violated the quiz schema. The whole generation is rejected.
func NewGenerationSchemaError(message string) *DomainError {
	return NewError(CodeGenerationSchema, message, nil)
}

func NewWriteFailedError(message string, cause error) *DomainError {
	return NewError(CodeWriteFailed, message, cause)
}

// NewInvalidTransitionError signals a session operation invoked from a
// state that does not permit it. This indicates a programming defect in
// the caller, not a user-facing condition.
func NewInvalidTransitionError(op string, state SessionState) *DomainError {
	return NewError(CodeInvalidTransition, fmt.Sprintf("operation %q is not valid in state %q", op, state), nil)
}
