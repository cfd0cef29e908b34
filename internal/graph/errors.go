package graph

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Error codes carried in gqlerror extensions.
const (
	CodeBadUserInput        = "BAD_USER_INPUT"
	CodeNotFound            = "NOT_FOUND"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternal            = "INTERNAL"
)

// ErrBadRequest matches every RequestError.
var ErrBadRequest = errors.New("bad graph request")

// RequestError is a client-side mistake: malformed arguments, unknown fields or operations.
type RequestError struct {
	// Subject is the argument, field, or operation at fault.
	Subject string
	Message string
}

func (e *RequestError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s", e.Subject, e.Message)
	}
	return e.Message
}

func (e *RequestError) Is(target error) bool {
	return target == ErrBadRequest
}

func requestErrorf(subject, format string, args ...any) *RequestError {
	return &RequestError{Subject: subject, Message: fmt.Sprintf(format, args...)}
}

func fieldError(code, message string, path ast.Path) *gqlerror.Error {
	return &gqlerror.Error{
		Message:    message,
		Path:       path,
		Extensions: map[string]interface{}{"code": code},
	}
}
