// Package errors defines the structured error type shared by the parse
// service and the MCP transport layer. Every failure carries a stable
// code so transports can map it to a wire error without string matching.
package errors

import "fmt"

type ErrorCode string

const (
	// ErrInvalidInput covers malformed or missing request arguments.
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrInvalidReference covers a reference timestamp that could not be
	// parsed.
	ErrInvalidReference ErrorCode = "INVALID_REFERENCE"
	// ErrInternal covers unexpected failures during matching or rendering.
	ErrInternal ErrorCode = "INTERNAL"
)

// ParseError is the canonical error type surfaced by the parse service.
type ParseError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair for structured logging.
func (e *ParseError) WithContext(key string, value any) *ParseError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsCode reports whether err is a ParseError with the given code.
func IsCode(err error, code ErrorCode) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.Code == code
}

func NewInvalidInput(message string) *ParseError {
	return &ParseError{Code: ErrInvalidInput, Message: message}
}

func NewInvalidReference(message string, cause error) *ParseError {
	return &ParseError{Code: ErrInvalidReference, Message: message, Cause: cause}
}

func NewInternal(message string, cause error) *ParseError {
	return &ParseError{Code: ErrInternal, Message: message, Cause: cause}
}
