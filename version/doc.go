// Package version exposes build information for entityhttp binaries.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/kbukum/entityhttp/version.Version=1.2.0 \
//	    -X github.com/kbukum/entityhttp/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Missing values fall back to the VCS stamp Go embeds in the binary.
package version
