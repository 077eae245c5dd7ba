package tripay

import (
    "errors"
    "fmt"
)

// ErrorKind classifies a failed Tripay API exchange.
type ErrorKind string

const (
    KindAuthFailure ErrorKind = "auth_failure"
    KindValidation  ErrorKind = "validation"
    KindAPIError    ErrorKind = "api_error"
    KindRateLimited ErrorKind = "rate_limited"
    KindServerError ErrorKind = "server_error"
    KindNetwork     ErrorKind = "network_error"
)

// Error is the single error type surfaced by the client and services.
// Kind, Message and (when present) FieldErrors are stable enough for a
// caller to render without parsing text.
type Error struct {
    Kind        ErrorKind
    Message     string
    HTTPStatus  int
    FieldErrors map[string]string
    Context     map[string]interface{}
}

func (e *Error) Error() string {
    if e.HTTPStatus > 0 {
        return fmt.Sprintf("tripay: %s (%d): %s", e.Kind, e.HTTPStatus, e.Message)
    }
    return fmt.Sprintf("tripay: %s: %s", e.Kind, e.Message)
}

// AsError unwraps err into a *Error, or nil when err is not one.
func AsError(err error) *Error {
    var te *Error
    if errors.As(err, &te) {
        return te
    }
    return nil
}

// IsKind reports whether err is a tripay error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
    te := AsError(err)
    return te != nil && te.Kind == kind
}

func newAuthFailure(message string) *Error {
    return &Error{Kind: KindAuthFailure, Message: message, HTTPStatus: 401}
}

func newValidation(message string, fieldErrors map[string]string) *Error {
    if fieldErrors == nil {
        fieldErrors = map[string]string{}
    }
    return &Error{Kind: KindValidation, Message: message, HTTPStatus: 422, FieldErrors: fieldErrors}
}

func newAPIError(message string, context map[string]interface{}) *Error {
    return &Error{Kind: KindAPIError, Message: message, Context: context}
}

func newRateLimited() *Error {
    return &Error{Kind: KindRateLimited, Message: "Rate limit exceeded", HTTPStatus: 429}
}

func newServerError(status int) *Error {
    return &Error{Kind: KindServerError, Message: "Server error occurred", HTTPStatus: status}
}

func newNetworkError(message string) *Error {
    return &Error{Kind: KindNetwork, Message: message}
}
