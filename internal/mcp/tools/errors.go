package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

// Error codes for MCP tool responses.
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeResolution       = "RESOLUTION_FAILED"
	ErrCodeSchemaFetch      = "SCHEMA_FETCH_FAILED"
	ErrCodeSchemaCompile    = "SCHEMA_COMPILE_FAILED"
	ErrCodeNotConforming    = "NOT_CONFORMING"
	ErrCodeInvalidContainer = "INVALID_CONTAINER"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeInternal         = "INTERNAL"
)

// maxViolationsInMessage bounds how many violations a NOT_CONFORMING message lists.
const maxViolationsInMessage = 5

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapError converts a jsongraph or transport error to a coded error.
// Errors that already carry a code are returned unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return err
	}

	coded = &CodedError{Code: ErrCodeInternal, Message: err.Error(), Cause: err}

	var netErr net.Error
	var failed *jsongraph.ValidationFailedError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		coded.Code = ErrCodeTimeout
		coded.Message = "request timed out"
	case errors.As(err, &failed):
		coded.Code = ErrCodeNotConforming
		coded.Message = violationSummary(failed.Result)
	case errors.Is(err, jsongraph.ErrSchemaFetch):
		coded.Code = ErrCodeSchemaFetch
		coded.Message = "could not fetch schema"
	case errors.Is(err, jsongraph.ErrSchemaCompile):
		coded.Code = ErrCodeSchemaCompile
		coded.Message = "schema could not be compiled"
	case errors.Is(err, jsongraph.ErrResolution):
		coded.Code = ErrCodeResolution
		coded.Message = "could not read document"
	case errors.Is(err, jsongraph.ErrContainer):
		coded.Code = ErrCodeInvalidContainer
		coded.Message = "document is not a valid graph container"
	}

	slog.Warn("tool error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

func violationSummary(r *jsongraph.Result) string {
	if r == nil || len(r.Violations) == 0 {
		return "document does not validate"
	}
	msgs := r.Messages()
	if len(msgs) > maxViolationsInMessage {
		rest := len(msgs) - maxViolationsInMessage
		msgs = append(msgs[:maxViolationsInMessage], fmt.Sprintf("and %d more", rest))
	}
	return fmt.Sprintf("document does not validate (%d violation(s)): %s",
		len(r.Violations), strings.Join(msgs, "; "))
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
