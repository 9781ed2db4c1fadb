package config

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestMillisecondsHook(t *testing.T) {
	to := reflect.TypeOf(time.Duration(0))
	tests := []struct {
		in   any
		want any
	}{
		{5000, 5 * time.Second},
		{uint(20), 20 * time.Millisecond},
		{1.5, 1500 * time.Microsecond},
		{"250", 250 * time.Millisecond},
		{"2s", "2s"},
		{3 * time.Second, 3 * time.Second},
	}
	for _, tt := range tests {
		got, err := MillisecondsHook(reflect.TypeOf(tt.in), to, tt.in)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%v: expected %v, got %v", tt.in, tt.want, got)
		}
	}

	if got, _ := MillisecondsHook(reflect.TypeOf(5), reflect.TypeOf(0), 5); got != 5 {
		t.Errorf("expected non-duration target untouched, got %v", got)
	}
}

type durationConfig struct {
	Wait  time.Duration `mapstructure:"wait"`
	Retry time.Duration `mapstructure:"retry"`
	Grace time.Duration `mapstructure:"grace"`
}

func TestLoadConfigDurations(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "wait: 250\nretry: 2s\ngrace: 1\n")
	t.Setenv("DECODE_TEST_GRACE", "40")

	var cfg durationConfig
	err := LoadConfig("svc", &cfg,
		WithConfigFile(path),
		WithEnvFile(filepath.Join(dir, "missing.env")),
		WithEnvPrefix("DECODE_TEST"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Wait != 250*time.Millisecond {
		t.Errorf("expected 250ms wait, got %v", cfg.Wait)
	}
	if cfg.Retry != 2*time.Second {
		t.Errorf("expected 2s retry, got %v", cfg.Retry)
	}
	if cfg.Grace != 40*time.Millisecond {
		t.Errorf("expected env grace of 40ms, got %v", cfg.Grace)
	}
}
