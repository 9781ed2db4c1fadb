package httpclient

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// Response is a successful exchange. It is a snapshot and never changes.
type Response struct {
	status     int
	statusText string
	headers    map[string]string
	data       any
	body       []byte
	options    RequestOptions
}

func newResponse(raw *RawResponse, opts RequestOptions) *Response {
	return &Response{
		status:     raw.Status,
		statusText: raw.StatusText,
		headers:    maps.Clone(raw.Headers),
		data:       raw.Data,
		body:       slices.Clone(raw.Body),
		options:    opts,
	}
}

// Status returns the HTTP status code.
func (r *Response) Status() int { return r.status }

// StatusCode is an alias of Status.
func (r *Response) StatusCode() int { return r.status }

// StatusText returns the reason phrase, e.g. "OK".
func (r *Response) StatusText() string { return r.statusText }

// Headers returns a copy of the response headers.
func (r *Response) Headers() map[string]string { return maps.Clone(r.headers) }

// Header returns a single response header value.
func (r *Response) Header(name string) string { return lookupHeader(r.headers, name) }

// Data returns the decoded body: generic JSON values for JSON responses,
// a string otherwise, nil when empty.
func (r *Response) Data() any { return r.data }

// Body returns a copy of the raw body bytes.
func (r *Response) Body() []byte { return slices.Clone(r.body) }

// Options returns the options the request was sent with.
func (r *Response) Options() RequestOptions { return r.options.Clone() }

// IsSuccess reports whether the status is 2xx.
func (r *Response) IsSuccess() bool { return r.status >= 200 && r.status < 300 }

// Bind decodes the JSON body into v.
func (r *Response) Bind(v any) error { return json.Unmarshal(r.body, v) }

func lookupHeader(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
