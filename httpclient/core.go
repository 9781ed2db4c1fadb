package httpclient

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/entityhttp/errors"
	"github.com/kbukum/entityhttp/logger"
	"github.com/kbukum/entityhttp/observability"
)

const msgNoConfiguration = "HttpClient has no `httpConfig`, set one before sending requests"

// Core holds the configuration and auth state of one entity and turns
// method calls into transport requests.
type Core struct {
	entity    string
	transport Transport
	log       *logger.Logger
	tracing   bool
	metrics   *observability.RequestMetrics

	mu       sync.RWMutex
	config   *Configuration
	strategy AuthStrategy
	auth     Auth
}

// NewCore creates a core for entity. A nil transport selects HTTPTransport
// and a nil logger the "httpclient" component logger.
func NewCore(entity string, transport Transport, log *logger.Logger) *Core {
	if transport == nil {
		transport = NewHTTPTransport()
	}
	if log == nil {
		log = logger.Get("httpclient")
	}
	return &Core{
		entity:    entity,
		transport: transport,
		log:       log.WithFields(logger.Fields(logger.FieldEntity, entity)),
		auth:      NoAuth{},
	}
}

// Entity returns the entity name fixed at construction.
func (c *Core) Entity() string { return c.entity }

// SetConfiguration validates and stores cfg. If a strategy is already set,
// cfg must satisfy it; on any failure the previous configuration is kept.
func (c *Core) SetConfiguration(cfg Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg = cfg.clone()

	c.mu.Lock()
	defer c.mu.Unlock()

	auth, err := ResolveAuth(c.strategy, cfg)
	if err != nil {
		return err
	}
	c.config = &cfg
	c.auth = auth
	c.log.Debug("http config set", logger.Fields("base_url", cfg.BaseURL, "timeout", cfg.EffectiveTimeout().String()))
	return nil
}

// SetAuthStrategy selects the strategy used by subsequent requests,
// replacing any previous one. Its requirements are checked against the
// current configuration.
func (c *Core) SetAuthStrategy(s AuthStrategy) error {
	if err := ValidateAuthStrategy(s); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var cfg Configuration
	if c.config != nil {
		cfg = *c.config
	}
	auth, err := ResolveAuth(s, cfg)
	if err != nil {
		return err
	}
	c.strategy = s
	c.auth = auth
	c.log.Debug("auth strategy set", logger.Fields(logger.FieldStrategy, s.String()))
	return nil
}

// Configuration returns a copy of the stored configuration.
func (c *Core) Configuration() (Configuration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.config == nil {
		return Configuration{}, false
	}
	return c.config.clone(), true
}

// AuthStrategy returns the selected strategy, AuthNone when unset.
func (c *Core) AuthStrategy() AuthStrategy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth.Strategy()
}

// BuildOptions assembles the options for one request from the current
// configuration and auth. For GET, payload must be nil or a map and becomes
// the query parameters; for other methods it becomes the body.
func (c *Core) BuildOptions(method, path string, payload any) (RequestOptions, error) {
	c.mu.RLock()
	cfg, auth := c.config, c.auth
	c.mu.RUnlock()

	if cfg == nil {
		return RequestOptions{}, errors.Configuration(msgNoConfiguration)
	}

	headers := map[string]string{HeaderContentType: contentTypeJSON}
	if c.entity != "" {
		headers[HeaderEntity] = c.entity
	}
	for k, v := range cfg.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}

	opts := RequestOptions{
		Method:  strings.ToUpper(method),
		URL:     path,
		BaseURL: cfg.BaseURL,
		Headers: headers,
		Timeout: cfg.EffectiveTimeout(),
	}
	auth.apply(&opts)

	if opts.Method == http.MethodGet {
		params, err := queryParams(payload)
		if err != nil {
			return RequestOptions{}, err
		}
		opts.Params = params
	} else {
		if isNilPayload(payload) {
			payload = map[string]any{}
		}
		opts.Data = payload
	}
	return opts, nil
}

// isNilPayload reports whether payload is nil or a nil map or pointer.
func isNilPayload(payload any) bool {
	if payload == nil {
		return true
	}
	v := reflect.ValueOf(payload)
	switch v.Kind() {
	case reflect.Map, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

func queryParams(payload any) (map[string]any, error) {
	switch p := payload.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		if p == nil {
			return map[string]any{}, nil
		}
		return p, nil
	case map[string]string:
		params := make(map[string]any, len(p))
		for k, v := range p {
			params[k] = v
		}
		return params, nil
	default:
		return nil, errors.InvalidInput("query", "GET parameters must be a map")
	}
}

// Perform sends opts through the transport. Failures are returned as *Error.
func (c *Core) Perform(ctx context.Context, opts RequestOptions) (*Response, error) {
	requestID := uuid.NewString()
	log := c.log.WithFields(logger.Fields(
		logger.FieldRequestID, requestID,
		logger.FieldMethod, opts.Method,
		logger.FieldURL, opts.FullURL(),
	))

	if c.tracing {
		var span trace.Span
		ctx, span = observability.StartSpan(ctx, observability.SpanHTTPRequest, trace.WithAttributes(
			attribute.String(observability.AttrEntity, c.entity),
			attribute.String(observability.AttrRequestID, requestID),
			attribute.String(observability.AttrMethod, opts.Method),
			attribute.String(observability.AttrURL, opts.FullURL()),
		))
		defer span.End()
		opts = opts.Clone()
		observability.InjectHeaders(ctx, opts.Headers)
	}
	if c.metrics != nil {
		c.metrics.RecordRequestStart(ctx, c.entity)
	}

	log.Debug("sending request")
	start := time.Now()
	raw, err := c.transport.Perform(ctx, opts)
	if err == nil && raw == nil {
		err = errors.Transport("transport returned no response", nil)
	}
	duration := time.Since(start)

	if err != nil {
		httpErr := newError(asFailure(err, opts), opts)
		c.recordEnd(ctx, opts.Method, httpErr.Status(), duration)
		if c.metrics != nil {
			c.metrics.RecordError(ctx, c.entity, httpErr.Code().String())
		}
		span := trace.SpanFromContext(ctx)
		if httpErr.HasResponse() {
			span.SetAttributes(attribute.Int(observability.AttrStatusCode, httpErr.Status()))
		}
		observability.SetSpanError(span, httpErr)
		log.Warn("request failed", logger.MergeWithDuration(logger.Fields(
			logger.FieldStatusCode, httpErr.Status(),
			logger.FieldError, httpErr.Error(),
		), duration))
		return nil, httpErr
	}

	c.recordEnd(ctx, opts.Method, raw.Status, duration)
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(observability.AttrStatusCode, raw.Status))
	log.Debug("request completed", logger.MergeWithDuration(logger.Fields(logger.FieldStatusCode, raw.Status), duration))
	return newResponse(raw, opts), nil
}

func (c *Core) recordEnd(ctx context.Context, method string, status int, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordRequestEnd(ctx, c.entity, method, status, duration)
	}
}

// Do builds the options for one call and performs it.
func (c *Core) Do(ctx context.Context, method, path string, payload any) (*Response, error) {
	opts, err := c.BuildOptions(method, path, payload)
	if err != nil {
		return nil, err
	}
	return c.Perform(ctx, opts)
}
