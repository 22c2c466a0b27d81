package types

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes failures of the image preparation pipeline so that
// a validation failure can never be confused with a decoder failure in
// logs or tests.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindDecode     ErrorKind = "decode"
	ErrorKindEncode     ErrorKind = "encode"
)

// PipelineError is a structured error produced by the preparation pipeline
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates an error for a rejected upload
func NewValidationError(message string) *PipelineError {
	return &PipelineError{Kind: ErrorKindValidation, Message: message}
}

// NewDecodeError creates an error carrying the decoder diagnostic
func NewDecodeError(message string, cause error) *PipelineError {
	return &PipelineError{Kind: ErrorKindDecode, Message: message, Cause: cause}
}

// NewEncodeError creates an error for a post-normalization serialization failure
func NewEncodeError(message string, cause error) *PipelineError {
	return &PipelineError{Kind: ErrorKindEncode, Message: message, Cause: cause}
}

// KindOf extracts the pipeline error kind from an error chain
func KindOf(err error) (ErrorKind, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

// IsKind checks whether the error chain contains a pipeline error of the
// given kind
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
