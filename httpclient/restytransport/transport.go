// Package restytransport performs httpclient requests with go-resty.
//
//	client, _ := httpclient.GetForEntity("NG",
//	    httpclient.WithTransport(restytransport.New()),
//	)
package restytransport

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/kbukum/entityhttp/httpclient"
)

// Transport implements httpclient.Transport on a resty client.
type Transport struct {
	client *resty.Client
}

// Option configures a Transport.
type Option func(*Transport)

// WithClient replaces the underlying resty client.
func WithClient(c *resty.Client) Option {
	return func(t *Transport) { t.client = c }
}

// New creates a transport on a fresh resty client.
func New(opts ...Option) *Transport {
	t := &Transport{client: resty.New()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Unwrap returns the underlying resty client.
func (t *Transport) Unwrap() *resty.Client {
	return t.client
}

// Perform sends the request. Statuses outside 2xx are returned as a
// *httpclient.TransportFailure carrying the response.
func (t *Transport) Perform(ctx context.Context, opts httpclient.RequestOptions) (*httpclient.RawResponse, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req := t.client.R().
		SetContext(ctx).
		SetHeaders(opts.Headers)

	if len(opts.Params) > 0 {
		req.SetQueryParamsFromValues(httpclient.EncodeParams(opts.Params))
	}

	body, contentType, err := httpclient.EncodeBody(opts.Data)
	if err != nil {
		return nil, httpclient.NewTransportFailure(fmt.Errorf("encode body: %w", err), nil, opts)
	}
	if body != nil {
		req.SetBody(body)
		if req.Header.Get(httpclient.HeaderContentType) == "" && contentType != "" {
			req.SetHeader(httpclient.HeaderContentType, contentType)
		}
	}

	if opts.Auth != nil {
		req.SetBasicAuth(opts.Auth.Username, opts.Auth.Password)
	}

	resp, err := req.Execute(opts.Method, opts.FullURL())
	if err != nil {
		return nil, httpclient.NewTransportFailure(err, nil, opts)
	}

	raw := httpclient.NewRawResponse(resp.StatusCode(), resp.Status(), resp.Header(), resp.Body())
	return httpclient.CheckStatus(raw, opts)
}
