package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/kbukum/entityhttp/errors"
	"github.com/kbukum/entityhttp/logger"
)

func newTestClient(t *testing.T, entity string, cfg map[string]any, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	c, err := GetForEntity(entity, opts...)
	if err != nil {
		t.Fatalf("GetForEntity: %v", err)
	}
	if cfg != nil {
		if err := c.SetHTTPConfigMap(cfg); err != nil {
			t.Fatalf("SetHTTPConfigMap: %v", err)
		}
	}
	return c
}

func TestGetForEntity(t *testing.T) {
	c, err := GetForEntity("NG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Entity() != "NG" {
		t.Errorf("expected entity NG, got %q", c.Entity())
	}

	_, err = GetForEntity("")
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if appErr.Message != "`entity` can not be null/empty" {
		t.Errorf("unexpected message %q", appErr.Message)
	}

	c, err = GetForEntity("", WithForceEntity(false))
	if err != nil {
		t.Fatalf("expected empty entity to be allowed, got %v", err)
	}
	if c.Entity() != "" {
		t.Errorf("expected empty entity, got %q", c.Entity())
	}
}

func TestGetForEntity_IndependentClients(t *testing.T) {
	a := newTestClient(t, "NG", map[string]any{"baseUrl": "http://a"})
	b := newTestClient(t, "NG", nil)
	if _, ok := b.Core().Configuration(); ok {
		t.Error("a new client should not share configuration with an earlier one")
	}
	if cfg, _ := a.Core().Configuration(); cfg.BaseURL != "http://a" {
		t.Errorf("unexpected configuration %+v", cfg)
	}
}

func TestClient_SetHTTPConfig(t *testing.T) {
	c := newTestClient(t, "NG", nil)

	if err := c.SetHTTPConfig(nil); !IsConfigurationError(err) {
		t.Errorf("expected configuration error for nil config, got %v", err)
	}
	if err := c.SetHTTPConfig(&Configuration{}); !IsConfigurationError(err) {
		t.Errorf("expected configuration error for empty config, got %v", err)
	}
	if err := c.SetHTTPConfigMap(map[string]any{}); !IsConfigurationError(err) {
		t.Errorf("expected configuration error for empty map, got %v", err)
	}
	err := c.SetHTTPConfigMap(map[string]any{"apiKey": "k"})
	assertConfigError(t, err, "Cannot find `baseUrl` or `baseURL` in httpConfig")

	if err := c.SetHTTPConfig(&Configuration{BaseURL: "http://x"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_SetHTTPAuthStrategy(t *testing.T) {
	c := newTestClient(t, "NG", map[string]any{"baseUrl": "http://x", "apiKey": "k"})

	assertConfigError(t, c.SetHTTPAuthStrategy("OAUTH"), "Invalid `httpAuthStrategy` received")
	assertConfigError(t, c.SetHTTPAuthStrategy(AuthBasic), "Cannot find `username` and `password` in httpConfig for BASIC Auth Strategy")
	if err := c.SetHTTPAuthStrategy(AuthAPIKey); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// Scenario: successful POST with the default strategy.
func TestClient_Post_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/" {
			t.Errorf("expected /, got %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Entity"); got != "NG" {
			t.Errorf("expected X-Entity NG, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected Content-Type application/json, got %q", got)
		}
		if _, _, ok := r.BasicAuth(); ok {
			t.Error("expected no basic auth")
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "{}" {
			t.Errorf("expected empty JSON object body, got %q", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, "NG", map[string]any{"baseUrl": srv.URL})
	resp, err := c.Post(context.Background(), "/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode() != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode())
	}
	if resp.StatusText() != "OK" {
		t.Errorf("expected OK, got %q", resp.StatusText())
	}
	data, ok := resp.Data().(map[string]any)
	if !ok || data["success"] != true {
		t.Errorf("expected {success: true}, got %v", resp.Data())
	}
	if resp.Header("content-type") != "application/json" {
		t.Errorf("expected JSON content type header, got %v", resp.Headers())
	}

	var out struct {
		Success bool `json:"success"`
	}
	if err := resp.Bind(&out); err != nil || !out.Success {
		t.Errorf("Bind failed: %v %+v", err, out)
	}

	opts := resp.Options()
	if opts.Method != http.MethodPost || opts.URL != "/" || opts.BaseURL != srv.URL {
		t.Errorf("unexpected options %+v", opts)
	}
}

// Scenario: POST rejected by the server.
func TestClient_NilPayloadsSendEmptyObject(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	type order struct{ ID string }
	c := newTestClient(t, "NG", map[string]any{"baseUrl": srv.URL})
	ctx := context.Background()
	if _, err := c.Post(ctx, "/orders", map[string]any(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Put(ctx, "/orders/1", (*order)(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Patch(ctx, "/orders/1", []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"{}", "{}", "[]"}
	if len(bodies) != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), len(bodies))
	}
	for i := range want {
		if bodies[i] != want[i] {
			t.Errorf("request %d: expected body %q, got %q", i, want[i], bodies[i])
		}
	}
}

func TestClient_Post_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	c := newTestClient(t, "NG", map[string]any{"baseUrl": srv.URL})
	resp, err := c.Post(context.Background(), "/", nil)
	if resp != nil {
		t.Error("expected nil response on failure")
	}
	httpErr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if !httpErr.HasResponse() {
		t.Fatal("expected HasResponse=true")
	}
	if httpErr.StatusCode() != 400 {
		t.Errorf("expected 400, got %d", httpErr.StatusCode())
	}
	data, ok := httpErr.Data().(map[string]any)
	if !ok || data["success"] != false {
		t.Errorf("expected {success: false}, got %v", httpErr.Data())
	}
	if httpErr.Trace() == "" {
		t.Error("expected a non-empty trace")
	}
}

func TestClient_Get_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Query().Get("page") != "2" {
			t.Errorf("expected page=2, got %q", r.URL.RawQuery)
		}
		if r.ContentLength > 0 {
			t.Errorf("expected no body, got %d bytes", r.ContentLength)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, "NG", map[string]any{"baseUrl": srv.URL})
	resp, err := c.Get(context.Background(), "/items", map[string]any{"page": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status() != http.StatusNoContent || resp.Data() != nil {
		t.Errorf("unexpected response %d %v", resp.Status(), resp.Data())
	}
}

func TestClient_Verbs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"method": r.Method, "body": body})
	}))
	defer srv.Close()

	c := newTestClient(t, "NG", map[string]any{"baseUrl": srv.URL})
	ctx := context.Background()
	calls := map[string]func(context.Context, string, any) (*Response, error){
		http.MethodPost:   c.Post,
		http.MethodPut:    c.Put,
		http.MethodPatch:  c.Patch,
		http.MethodDelete: c.Delete,
	}
	for method, call := range calls {
		resp, err := call(ctx, "/r", map[string]any{"id": 1})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", method, err)
		}
		data := resp.Data().(map[string]any)
		if data["method"] != method {
			t.Errorf("expected method %s, got %v", method, data["method"])
		}
		if body, _ := data["body"].(map[string]any); body["id"] != float64(1) {
			t.Errorf("%s: expected body id=1, got %v", method, data["body"])
		}
	}
}

func TestClient_AuthOnTheWire(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"basic":  ok && user == "u" && pass == "p",
			"apiKey": r.Header.Get("X-Api-Key"),
		})
	}))
	defer srv.Close()

	c := newTestClient(t, "NG", map[string]any{
		"baseUrl": srv.URL, "username": "u", "password": "p", "apiKey": "k",
	})
	ctx := context.Background()

	if err := c.SetHTTPAuthStrategy(AuthBasic); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := c.Get(ctx, "/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data := resp.Data().(map[string]any)
	if data["basic"] != true || data["apiKey"] != "" {
		t.Errorf("expected basic auth only, got %v", data)
	}

	if err := c.SetHTTPAuthStrategy(AuthAPIKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err = c.Get(ctx, "/", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data = resp.Data().(map[string]any)
	if data["basic"] != false || data["apiKey"] != "k" {
		t.Errorf("expected API key only, got %v", data)
	}
}

func TestClient_ConcurrentCallsKeepPayloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"path": r.URL.Path, "n": body["n"]})
	}))
	defer srv.Close()

	c := newTestClient(t, "NG", map[string]any{"baseUrl": srv.URL})

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := fmt.Sprintf("/items/%d", i)
			resp, err := c.Post(context.Background(), path, map[string]any{"n": i})
			if err != nil {
				errs <- err
				return
			}
			data := resp.Data().(map[string]any)
			if data["path"] != path || data["n"] != float64(i) {
				errs <- fmt.Errorf("call %d got %v", i, data)
			}
			if resp.Options().URL != path {
				errs <- fmt.Errorf("call %d options url %q", i, resp.Options().URL)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestClient_RequestWithoutConfiguration(t *testing.T) {
	c := newTestClient(t, "NG", nil)
	if _, err := c.Get(context.Background(), "/", nil); !IsConfigurationError(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}
