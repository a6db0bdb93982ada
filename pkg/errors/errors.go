// Package errors provides structured error types for itisgraph.
//
// Every failure of a conversion run is fatal: there are no retries and no
// partial results. The codes below let the CLI and tests tell the failure
// kinds apart without matching on message text.
//
// # Error Codes
//
//   - SOURCE_READ_FAILURE: I/O or query failure against the SQLite source
//   - UNKNOWN_VOCABULARY_VALUE: a geography or language value outside its closed vocabulary
//   - LABEL_COLLISION: two records produced the same node id
//   - MALFORMED_GRAPH_DOCUMENT: a graph document does not match the expected schema
//   - INVALID_*: command-line or configuration validation failures
//
// # Usage
//
//	err := errors.Wrap(errors.ErrCodeSourceRead, err, "query %s", domain)
//	if errors.Is(err, errors.ErrCodeSourceRead) {
//	    // abort the run
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure kinds of a conversion run.
const (
	ErrCodeSourceRead        Code = "SOURCE_READ_FAILURE"
	ErrCodeUnknownVocabulary Code = "UNKNOWN_VOCABULARY_VALUE"
	ErrCodeLabelCollision    Code = "LABEL_COLLISION"
	ErrCodeMalformedDocument Code = "MALFORMED_GRAPH_DOCUMENT"
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInternal          Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the error code.
func (e *Error) ErrorCode() Code {
	return e.Code
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coder is implemented by every error type in this package.
type coder interface {
	ErrorCode() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain and inspects the outermost coded error.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For coded errors, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var v *VocabularyError
	if errors.As(err, &v) {
		return fmt.Sprintf("unknown %s %q", v.Vocabulary, v.Value)
	}
	var c *CollisionError
	if errors.As(err, &c) {
		return fmt.Sprintf("duplicate node id %q", c.ID)
	}
	return err.Error()
}

// VocabularyError reports a controlled-vocabulary value that is not a member
// of its closed enumeration.
type VocabularyError struct {
	Vocabulary string // e.g. "geographic division" or "language"
	Value      string // the offending source value
}

// Error implements the error interface.
func (e *VocabularyError) Error() string {
	return fmt.Sprintf("%s: unknown %s %q", ErrCodeUnknownVocabulary, e.Vocabulary, e.Value)
}

// ErrorCode returns [ErrCodeUnknownVocabulary].
func (e *VocabularyError) ErrorCode() Code {
	return ErrCodeUnknownVocabulary
}

// CollisionError reports a node id emitted twice within one graph.
type CollisionError struct {
	ID     string // the duplicated node id
	Domain string // entity domain that produced the duplicate
}

// Error implements the error interface.
func (e *CollisionError) Error() string {
	if e.Domain == "" {
		return fmt.Sprintf("%s: duplicate node id %q", ErrCodeLabelCollision, e.ID)
	}
	return fmt.Sprintf("%s: duplicate node id %q in %s", ErrCodeLabelCollision, e.ID, e.Domain)
}

// ErrorCode returns [ErrCodeLabelCollision].
func (e *CollisionError) ErrorCode() Code {
	return ErrCodeLabelCollision
}
