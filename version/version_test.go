package version

import (
	"strings"
	"testing"
)

func withBuildVars(t *testing.T, v, commit, built string) {
	t.Helper()
	origVersion, origCommit, origBuilt := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = v, commit, built
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = origVersion, origCommit, origBuilt
	})
}

func TestGet_LinkTimeValuesWin(t *testing.T) {
	withBuildVars(t, "1.2.0", "abcdef1234", "2024-06-01T10:00:00Z")

	info := Get()
	if info.Version != "1.2.0" {
		t.Errorf("expected version 1.2.0, got %q", info.Version)
	}
	if info.GitCommit != "abcdef1" {
		t.Errorf("expected commit shortened to abcdef1, got %q", info.GitCommit)
	}
	if info.BuildTime != "2024-06-01T10:00:00Z" {
		t.Errorf("expected build time to be kept, got %q", info.BuildTime)
	}
}

func TestGet_DevDefaults(t *testing.T) {
	withBuildVars(t, "dev", "", "")

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected dev, got %q", info.Version)
	}
	if info.IsRelease() {
		t.Error("dev should not be a release")
	}
}

func TestInfo_Short(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}

func TestInfo_String(t *testing.T) {
	s := Info{Version: "1.0.0", BuildTime: "2024-06-01T10:00:00Z", GoVersion: "go1.26.0"}.String()
	if !strings.HasPrefix(s, "1.0.0 built 2024-06-01T10:00:00Z") {
		t.Errorf("unexpected %q", s)
	}
	if !strings.HasSuffix(s, "(go1.26.0)") {
		t.Errorf("expected go version suffix, got %q", s)
	}
}

func TestInfo_IsRelease(t *testing.T) {
	if !(Info{Version: "1.0.0"}).IsRelease() {
		t.Error("expected tagged build to be a release")
	}
	if (Info{Version: "1.0.0", Dirty: true}).IsRelease() {
		t.Error("dirty build should not be a release")
	}
}
