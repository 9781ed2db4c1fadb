package httpclient

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Transport performs a single HTTP exchange described by opts.
//
// On success it returns the raw response. When a response is received with a
// status outside 2xx it returns a *TransportFailure whose Response is set.
// Any other failure (connection, timeout, cancellation) may be returned as a
// plain error; the caller wraps it.
type Transport interface {
	Perform(ctx context.Context, opts RequestOptions) (*RawResponse, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, opts RequestOptions) (*RawResponse, error)

// Perform calls f.
func (f TransportFunc) Perform(ctx context.Context, opts RequestOptions) (*RawResponse, error) {
	return f(ctx, opts)
}

// RawResponse is what a transport received from the server.
type RawResponse struct {
	Status     int
	StatusText string
	Headers    map[string]string
	Data       any
	Body       []byte
}

// IsSuccess reports whether the status is 2xx.
func (r *RawResponse) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

// NewRawResponse builds a RawResponse from wire values. status is the
// status line as reported by net/http ("200 OK"); body is decoded when the
// content type is JSON.
func NewRawResponse(statusCode int, status string, header http.Header, body []byte) *RawResponse {
	return &RawResponse{
		Status:     statusCode,
		StatusText: statusText(statusCode, status),
		Headers:    flattenHeaders(header),
		Data:       DecodeBody(header.Get(HeaderContentType), body),
		Body:       body,
	}
}

// CheckStatus returns raw unchanged for 2xx statuses and a failure carrying
// raw otherwise.
func CheckStatus(raw *RawResponse, opts RequestOptions) (*RawResponse, error) {
	if raw.IsSuccess() {
		return raw, nil
	}
	return nil, NewTransportFailure(fmt.Errorf("request failed with status code %d", raw.Status), raw, opts)
}

// DecodeBody decodes JSON bodies into generic values. Other non-empty bodies
// are returned as strings, empty ones as nil.
func DecodeBody(contentType string, body []byte) any {
	if len(body) == 0 {
		return nil
	}
	if strings.Contains(strings.ToLower(contentType), "json") {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			return v
		}
	}
	return string(body)
}

// TransportFailure is the failure of one exchange. Err carries the stack
// captured where the failure was first seen.
type TransportFailure struct {
	Err      error
	Response *RawResponse
	Options  RequestOptions
}

// NewTransportFailure records err with a stack trace.
func NewTransportFailure(err error, resp *RawResponse, opts RequestOptions) *TransportFailure {
	return &TransportFailure{
		Err:      errors.WithStack(err),
		Response: resp,
		Options:  opts,
	}
}

func (f *TransportFailure) Error() string {
	return f.Err.Error()
}

func (f *TransportFailure) Unwrap() error {
	return f.Err
}

// Trace returns the error message followed by the captured stack.
func (f *TransportFailure) Trace() string {
	return fmt.Sprintf("%+v", f.Err)
}

// asFailure normalizes any transport error into a *TransportFailure.
func asFailure(err error, opts RequestOptions) *TransportFailure {
	var f *TransportFailure
	if stderrors.As(err, &f) {
		return f
	}
	return NewTransportFailure(err, nil, opts)
}

func statusText(code int, status string) string {
	if text := strings.TrimPrefix(status, strconv.Itoa(code)+" "); text != "" && text != status {
		return text
	}
	return http.StatusText(code)
}

// flattenHeaders keeps the first value of every header.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
