package httpclient

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/entityhttp/logger"
	"github.com/kbukum/entityhttp/observability"
)

func newTestCore(t *testing.T, entity string, cfg *Configuration) *Core {
	t.Helper()
	c := NewCore(entity, TransportFunc(func(ctx context.Context, opts RequestOptions) (*RawResponse, error) {
		return &RawResponse{Status: 200, StatusText: "OK"}, nil
	}), logger.Nop())
	if cfg != nil {
		if err := c.SetConfiguration(*cfg); err != nil {
			t.Fatalf("SetConfiguration: %v", err)
		}
	}
	return c
}

func TestCore_BuildOptions_Defaults(t *testing.T) {
	c := newTestCore(t, "NG", &Configuration{BaseURL: "http://localhost:3000"})

	opts, err := c.BuildOptions("post", "/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", opts.Method)
	}
	if opts.URL != "/" || opts.BaseURL != "http://localhost:3000" {
		t.Errorf("unexpected url %q base %q", opts.URL, opts.BaseURL)
	}
	if opts.Timeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", opts.Timeout)
	}
	if opts.Headers[HeaderContentType] != "application/json" {
		t.Errorf("expected JSON content type, got %v", opts.Headers)
	}
	if opts.Headers[HeaderEntity] != "NG" {
		t.Errorf("expected X-Entity NG, got %v", opts.Headers)
	}
	if opts.Auth != nil {
		t.Error("expected no credentials without a strategy")
	}
	if data, ok := opts.Data.(map[string]any); !ok || len(data) != 0 {
		t.Errorf("expected empty map body, got %#v", opts.Data)
	}
	if opts.Params != nil {
		t.Errorf("expected no params for POST, got %v", opts.Params)
	}
}

func TestCore_BuildOptions_GETUsesParams(t *testing.T) {
	c := newTestCore(t, "NG", &Configuration{BaseURL: "http://x"})

	opts, err := c.BuildOptions(http.MethodGet, "/items", map[string]any{"q": "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Params["q"] != "a" {
		t.Errorf("expected params q=a, got %v", opts.Params)
	}
	if opts.Data != nil {
		t.Errorf("expected no body for GET, got %v", opts.Data)
	}

	opts, err = c.BuildOptions(http.MethodGet, "/items", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Params == nil || len(opts.Params) != 0 {
		t.Errorf("expected empty params, got %v", opts.Params)
	}

	if _, err := c.BuildOptions(http.MethodGet, "/items", []int{1}); err == nil {
		t.Error("expected error for non-map GET params")
	}
}

func TestCore_BuildOptions_HeaderOverride(t *testing.T) {
	c := newTestCore(t, "NG", &Configuration{
		BaseURL: "http://x",
		Timeout: 5 * time.Second,
		Headers: map[string]string{
			"content-type": "text/plain",
			"X-ENTITY":     "override",
			"x-trace":      "1",
		},
	})

	opts, err := c.BuildOptions(http.MethodPut, "/", map[string]any{"a": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Headers["Content-Type"] != "text/plain" {
		t.Errorf("expected caller Content-Type, got %v", opts.Headers)
	}
	if opts.Headers["X-Entity"] != "override" {
		t.Errorf("expected caller X-Entity, got %v", opts.Headers)
	}
	if opts.Headers["X-Trace"] != "1" {
		t.Errorf("expected extra header, got %v", opts.Headers)
	}
	if len(opts.Headers) != 3 {
		t.Errorf("expected 3 headers, got %v", opts.Headers)
	}
	if opts.Timeout != 5*time.Second {
		t.Errorf("expected configured timeout, got %v", opts.Timeout)
	}
}

func TestCore_BuildOptions_NoConfiguration(t *testing.T) {
	c := newTestCore(t, "NG", nil)
	_, err := c.BuildOptions(http.MethodGet, "/", nil)
	if !IsConfigurationError(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestCore_BuildOptions_EmptyEntityOmitsHeader(t *testing.T) {
	c := newTestCore(t, "", &Configuration{BaseURL: "http://x"})
	opts, err := c.BuildOptions(http.MethodGet, "/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := opts.Headers[HeaderEntity]; ok {
		t.Errorf("expected no X-Entity header, got %v", opts.Headers)
	}
}

func TestCore_AuthStrategies(t *testing.T) {
	c := newTestCore(t, "NG", &Configuration{
		BaseURL:  "http://x",
		Username: "u",
		Password: "p",
		APIKey:   "k",
	})

	if err := c.SetAuthStrategy(AuthBasic); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts, _ := c.BuildOptions(http.MethodGet, "/", nil)
	if opts.Auth == nil || opts.Auth.Username != "u" || opts.Auth.Password != "p" {
		t.Errorf("expected basic credentials, got %+v", opts.Auth)
	}
	if _, ok := opts.Headers[HeaderAPIKey]; ok {
		t.Error("basic auth should not set X-Api-Key")
	}

	if err := c.SetAuthStrategy(AuthAPIKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts, _ = c.BuildOptions(http.MethodGet, "/", nil)
	if opts.Headers[HeaderAPIKey] != "k" {
		t.Errorf("expected X-Api-Key k, got %v", opts.Headers)
	}
	if opts.Auth != nil {
		t.Error("switching to API_KEY should clear basic credentials")
	}

	if err := c.SetAuthStrategy(AuthNone); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts, _ = c.BuildOptions(http.MethodGet, "/", nil)
	if opts.Auth != nil || opts.Headers[HeaderAPIKey] != "" {
		t.Errorf("NO_AUTH should carry no credentials, got %+v", opts)
	}
	if c.AuthStrategy() != AuthNone {
		t.Errorf("expected NO_AUTH, got %s", c.AuthStrategy())
	}
}

func TestCore_SetAuthStrategy_MissingCredentials(t *testing.T) {
	c := newTestCore(t, "NG", &Configuration{BaseURL: "http://x", Username: "u"})

	err := c.SetAuthStrategy(AuthBasic)
	if !IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if c.AuthStrategy() != AuthNone {
		t.Errorf("failed strategy should not be stored, got %s", c.AuthStrategy())
	}

	if err := c.SetAuthStrategy(AuthAPIKey); !IsConfigurationError(err) {
		t.Errorf("expected configuration error for missing apiKey, got %v", err)
	}
}

func TestCore_SetAuthStrategy_BeforeConfiguration(t *testing.T) {
	c := newTestCore(t, "NG", nil)
	if err := c.SetAuthStrategy(AuthAPIKey); !IsConfigurationError(err) {
		t.Errorf("expected configuration error without config, got %v", err)
	}
	if err := c.SetAuthStrategy(AuthNone); err != nil {
		t.Errorf("NO_AUTH should not need configuration, got %v", err)
	}
}

func TestCore_SetConfiguration_RechecksStrategy(t *testing.T) {
	c := newTestCore(t, "NG", &Configuration{BaseURL: "http://x", APIKey: "k"})
	if err := c.SetAuthStrategy(AuthAPIKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := c.SetConfiguration(Configuration{BaseURL: "http://y"})
	if !IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	cfg, ok := c.Configuration()
	if !ok || cfg.BaseURL != "http://x" {
		t.Errorf("expected previous configuration to be kept, got %+v", cfg)
	}

	if err := c.SetConfiguration(Configuration{BaseURL: "http://y", APIKey: "k2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts, _ := c.BuildOptions(http.MethodGet, "/", nil)
	if opts.Headers[HeaderAPIKey] != "k2" || opts.BaseURL != "http://y" {
		t.Errorf("expected new configuration in options, got %+v", opts)
	}
}

func TestCore_SetConfiguration_MissingBaseURL(t *testing.T) {
	c := newTestCore(t, "NG", nil)
	err := c.SetConfiguration(Configuration{APIKey: "k"})
	assertConfigError(t, err, "Cannot find `baseUrl` or `baseURL` in httpConfig")
	if _, ok := c.Configuration(); ok {
		t.Error("expected no configuration to be stored")
	}
}

func TestCore_ConfigurationIsCopied(t *testing.T) {
	headers := map[string]string{"X-A": "1"}
	c := newTestCore(t, "NG", &Configuration{BaseURL: "http://x", Headers: headers})
	headers["X-A"] = "2"

	opts, _ := c.BuildOptions(http.MethodGet, "/", nil)
	if opts.Headers["X-A"] != "1" {
		t.Errorf("stored configuration should not follow caller mutations, got %v", opts.Headers)
	}
}

func TestCore_Perform_WrapsResults(t *testing.T) {
	var calls int
	c := NewCore("NG", TransportFunc(func(ctx context.Context, opts RequestOptions) (*RawResponse, error) {
		calls++
		if opts.URL == "/fail" {
			raw := &RawResponse{Status: 500, StatusText: "Internal Server Error", Data: "boom"}
			return CheckStatus(raw, opts)
		}
		return &RawResponse{Status: 200, StatusText: "OK", Data: map[string]any{"success": true}}, nil
	}), logger.Nop())
	if err := c.SetConfiguration(Configuration{BaseURL: "http://x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := c.Do(context.Background(), http.MethodGet, "/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status() != 200 || resp.Options().Method != http.MethodGet {
		t.Errorf("unexpected response %+v", resp)
	}

	_, err = c.Do(context.Background(), http.MethodPost, "/fail", nil)
	var httpErr *Error
	if !stderrors.As(err, &httpErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if httpErr.Status() != 500 || httpErr.Data() != "boom" || httpErr.Code() != ErrCodeServer {
		t.Errorf("unexpected error %v", httpErr)
	}
	if calls != 2 {
		t.Errorf("expected 2 transport calls, got %d", calls)
	}
}

func TestCore_Perform_NilResponse(t *testing.T) {
	c := NewCore("NG", TransportFunc(func(ctx context.Context, opts RequestOptions) (*RawResponse, error) {
		return nil, nil
	}), logger.Nop())
	_, err := c.Perform(context.Background(), RequestOptions{Method: "GET"})
	if !IsTransportError(err) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestCore_Perform_TracingAndMetrics(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	reader := sdkmetric.NewManualReader()
	metrics, err := observability.NewRequestMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := NewCore("NG", TransportFunc(func(ctx context.Context, opts RequestOptions) (*RawResponse, error) {
		return CheckStatus(&RawResponse{Status: 404, StatusText: "Not Found"}, opts)
	}), logger.Nop())
	c.tracing = true
	c.metrics = metrics
	if err := c.SetConfiguration(Configuration{BaseURL: "http://x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Do(context.Background(), http.MethodGet, "/missing", nil); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != observability.SpanHTTPRequest {
		t.Fatalf("expected one http.request span, got %d", len(spans))
	}
	var sawEntity bool
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == observability.AttrEntity && attr.Value.AsString() == "NG" {
			sawEntity = true
		}
	}
	if !sawEntity {
		t.Errorf("expected entity attribute, got %v", spans[0].Attributes())
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	var sawError bool
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if md.Name == "entityhttp.error.total" {
				sawError = true
			}
		}
	}
	if !sawError {
		t.Error("expected error counter to be recorded")
	}
}
