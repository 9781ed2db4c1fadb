package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"

	"github.com/kbukum/entityhttp/errors"
)

// ErrorCode classifies transport errors.
type ErrorCode int

const (
	// ErrCodeUnknown is used when nothing more specific applies.
	ErrCodeUnknown ErrorCode = iota
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout
	// ErrCodeConnection indicates a failure before any response (refused, DNS).
	ErrCodeConnection
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeRateLimit indicates rate limiting (429).
	ErrCodeRateLimit
	// ErrCodeValidation indicates the server rejected the request (other 4xx).
	ErrCodeValidation
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
	// ErrCodeCanceled indicates the caller cancelled the request's context.
	ErrCodeCanceled
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	case ErrCodeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// ClassifyStatusCode maps a non-2xx HTTP status to an ErrorCode.
func ClassifyStatusCode(statusCode int) ErrorCode {
	switch {
	case statusCode == 401 || statusCode == 403:
		return ErrCodeAuth
	case statusCode == 404:
		return ErrCodeNotFound
	case statusCode == 429:
		return ErrCodeRateLimit
	case statusCode >= 400 && statusCode < 500:
		return ErrCodeValidation
	case statusCode >= 500:
		return ErrCodeServer
	default:
		return ErrCodeUnknown
	}
}

func classifyFailure(err error) ErrorCode {
	if stderrors.Is(err, context.Canceled) {
		return ErrCodeCanceled
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return ErrCodeTimeout
	}
	return ErrCodeConnection
}

// Error is a failed exchange. When the server answered, the response fields
// are available through the same accessors as Response; otherwise they
// return zero values. The original failure and its stack are kept.
type Error struct {
	code     ErrorCode
	failure  *TransportFailure
	response *Response
	options  RequestOptions
}

func newError(f *TransportFailure, opts RequestOptions) *Error {
	e := &Error{failure: f, options: opts}
	if f.Response != nil {
		e.response = newResponse(f.Response, opts)
		e.code = ClassifyStatusCode(f.Response.Status)
	} else {
		e.code = classifyFailure(f.Err)
	}
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.response != nil {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.code, e.response.status, e.failure.Error())
	}
	return fmt.Sprintf("httpclient: %s: %s", e.code, e.failure.Error())
}

// Unwrap returns the original transport failure.
func (e *Error) Unwrap() error { return e.failure }

// Code returns the classification.
func (e *Error) Code() ErrorCode { return e.code }

// Retryable reports whether repeating the request could succeed.
func (e *Error) Retryable() bool {
	switch e.code {
	case ErrCodeTimeout, ErrCodeConnection, ErrCodeRateLimit, ErrCodeServer:
		return true
	}
	return false
}

// HasResponse reports whether the server answered.
func (e *Error) HasResponse() bool { return e.response != nil }

// Response returns the received response, or nil.
func (e *Error) Response() *Response { return e.response }

// Trace returns the failure message followed by its stack trace.
func (e *Error) Trace() string { return e.failure.Trace() }

// Options returns the options the request was sent with.
func (e *Error) Options() RequestOptions { return e.options.Clone() }

// Status returns the HTTP status code, or 0 without a response.
func (e *Error) Status() int {
	if e.response == nil {
		return 0
	}
	return e.response.Status()
}

// StatusCode is an alias of Status.
func (e *Error) StatusCode() int { return e.Status() }

// StatusText returns the reason phrase, or "" without a response.
func (e *Error) StatusText() string {
	if e.response == nil {
		return ""
	}
	return e.response.StatusText()
}

// Headers returns the response headers, or nil without a response.
func (e *Error) Headers() map[string]string {
	if e.response == nil {
		return nil
	}
	return e.response.Headers()
}

// Data returns the decoded response body, or nil without a response.
func (e *Error) Data() any {
	if e.response == nil {
		return nil
	}
	return e.response.Data()
}

// Body returns the raw response body, or nil without a response.
func (e *Error) Body() []byte {
	if e.response == nil {
		return nil
	}
	return e.response.Body()
}

// AppError converts e into the unified error type with code TRANSPORT_ERROR,
// or TIMEOUT for timeouts.
func (e *Error) AppError() *errors.AppError {
	var appErr *errors.AppError
	if e.code == ErrCodeTimeout {
		appErr = errors.Timeout(e.options.Method+" "+e.options.FullURL(), e)
	} else {
		appErr = errors.Transport(e.failure.Error(), e)
	}
	appErr.WithDetail("kind", e.code.String())
	if e.response != nil {
		appErr.WithDetail("status", e.response.status)
	}
	return appErr
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsConfigurationError reports whether err is a configuration problem
// detected before any I/O.
func IsConfigurationError(err error) bool {
	return errors.HasCode(err, errors.ErrCodeConfiguration)
}

// IsValidationError reports whether err is an argument validation problem.
func IsValidationError(err error) bool {
	return errors.HasCode(err, errors.ErrCodeValidation)
}

// IsTransportError reports whether err came from a performed request.
func IsTransportError(err error) bool {
	_, ok := AsError(err)
	return ok
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	e, ok := AsError(err)
	return ok && e.code == ErrCodeTimeout
}

// IsNotFound checks if an error is a not-found error.
func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.code == ErrCodeNotFound
}

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool {
	e, ok := AsError(err)
	return ok && e.code == ErrCodeAuth
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	e, ok := AsError(err)
	return ok && e.Retryable()
}
