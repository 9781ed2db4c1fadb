package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPTransport is the default Transport, built on net/http.
type HTTPTransport struct {
	httpClient *http.Client
}

// HTTPTransportOption configures an HTTPTransport.
type HTTPTransportOption func(*HTTPTransport)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) HTTPTransportOption {
	return func(t *HTTPTransport) { t.httpClient = c }
}

// WithTLSConfig sets the TLS configuration of the underlying transport.
// Apply it after WithHTTPClient when both are used.
func WithTLSConfig(cfg *tls.Config) HTTPTransportOption {
	return func(t *HTTPTransport) {
		if tr, ok := t.httpClient.Transport.(*http.Transport); ok {
			tr.TLSClientConfig = cfg
		}
	}
}

// NewHTTPTransport creates a transport on a clone of http.DefaultTransport.
// Timeouts come from each request's options, not from the client.
func NewHTTPTransport(opts ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Unwrap returns the underlying *http.Client.
func (t *HTTPTransport) Unwrap() *http.Client {
	return t.httpClient
}

// Perform sends the request and reads the whole response body.
func (t *HTTPTransport) Perform(ctx context.Context, opts RequestOptions) (*RawResponse, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := t.buildRequest(ctx, opts)
	if err != nil {
		return nil, NewTransportFailure(err, nil, opts)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, NewTransportFailure(err, nil, opts)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewTransportFailure(fmt.Errorf("read response body: %w", err), nil, opts)
	}

	return CheckStatus(NewRawResponse(resp.StatusCode, resp.Status, resp.Header, body), opts)
}

// buildRequest constructs an *http.Request from the options.
func (t *HTTPTransport) buildRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	body, contentType, err := EncodeBody(opts.Data)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.FullURL(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if len(opts.Params) > 0 {
		q := req.URL.Query()
		for k, vs := range EncodeParams(opts.Params) {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}

	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get(HeaderContentType) == "" && contentType != "" {
		req.Header.Set(HeaderContentType, contentType)
	}

	if opts.Auth != nil {
		req.SetBasicAuth(opts.Auth.Username, opts.Auth.Password)
	}
	return req, nil
}

// EncodeBody converts a body value into an io.Reader and content type.
// Readers and byte slices pass through, strings are sent as text, anything
// else is encoded as JSON.
func EncodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), contentTypeJSON, nil
	}
}
