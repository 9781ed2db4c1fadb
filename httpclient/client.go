package httpclient

import (
	"context"
	"net/http"

	"github.com/kbukum/entityhttp/errors"
	"github.com/kbukum/entityhttp/logger"
	"github.com/kbukum/entityhttp/observability"
)

// Client is the entity-scoped facade. Setters validate their input before
// handing it to the Core; verb methods build and perform one request each.
// A Client is safe for concurrent use.
type Client struct {
	core *Core
}

type clientOptions struct {
	forceEntity bool
	transport   Transport
	log         *logger.Logger
	tracing     bool
	metrics     *observability.RequestMetrics
}

// Option configures a Client at construction.
type Option func(*clientOptions)

// WithForceEntity controls whether an empty entity is rejected. Default true.
func WithForceEntity(force bool) Option {
	return func(o *clientOptions) { o.forceEntity = force }
}

// WithTransport sets the transport used to perform requests.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) { o.transport = t }
}

// WithLogger sets the logger for request and configuration events.
func WithLogger(l *logger.Logger) Option {
	return func(o *clientOptions) { o.log = l }
}

// WithTracing records a client span per request and propagates its context
// in the request headers.
func WithTracing() Option {
	return func(o *clientOptions) { o.tracing = true }
}

// WithMetrics records request counts, durations and errors.
func WithMetrics(m *observability.RequestMetrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// GetForEntity returns a new client bound to entity. Each call returns an
// independent client.
func GetForEntity(entity string, opts ...Option) (*Client, error) {
	o := clientOptions{forceEntity: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.forceEntity && entity == "" {
		return nil, errors.Validation(msgEmptyEntity)
	}

	core := NewCore(entity, o.transport, o.log)
	core.tracing = o.tracing
	core.metrics = o.metrics
	return &Client{core: core}, nil
}

// Entity returns the entity this client is bound to.
func (c *Client) Entity() string { return c.core.Entity() }

// Core returns the underlying core.
func (c *Client) Core() *Core { return c.core }

// SetHTTPConfig validates and stores cfg.
func (c *Client) SetHTTPConfig(cfg *Configuration) error {
	if err := ValidateConfiguration(cfg); err != nil {
		return err
	}
	return c.core.SetConfiguration(*cfg)
}

// SetHTTPConfigMap validates, decodes and stores a dynamic configuration map.
// See ConfigurationFromMap for the accepted keys.
func (c *Client) SetHTTPConfigMap(m map[string]any) error {
	if err := ValidateConfiguration(m); err != nil {
		return err
	}
	cfg, err := ConfigurationFromMap(m)
	if err != nil {
		return err
	}
	return c.core.SetConfiguration(cfg)
}

// SetHTTPAuthStrategy validates and selects the auth strategy.
func (c *Client) SetHTTPAuthStrategy(s AuthStrategy) error {
	if err := ValidateAuthStrategy(s); err != nil {
		return err
	}
	return c.core.SetAuthStrategy(s)
}

// Get sends a GET request with query as its parameters.
func (c *Client) Get(ctx context.Context, path string, query map[string]any) (*Response, error) {
	return c.core.Do(ctx, http.MethodGet, path, query)
}

// Post sends body as JSON with POST.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.core.Do(ctx, http.MethodPost, path, body)
}

// Put sends body as JSON with PUT.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.core.Do(ctx, http.MethodPut, path, body)
}

// Patch sends body as JSON with PATCH.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.core.Do(ctx, http.MethodPatch, path, body)
}

// Delete sends body as JSON with DELETE.
func (c *Client) Delete(ctx context.Context, path string, body any) (*Response, error) {
	return c.core.Do(ctx, http.MethodDelete, path, body)
}
