package bootstrap

import (
	"time"

	"github.com/kbukum/entityhttp/config"
	"github.com/kbukum/entityhttp/httpclient"
	"github.com/kbukum/entityhttp/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
	loaderOpts      []config.LoaderOption
	clientOpts      []httpclient.Option
	overrides       []func(*Config)
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{gracefulTimeout: 15 * time.Second}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from the config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout bounds the time stop hooks may take. Default 15s.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = d }
}

// WithLoaderOptions passes options to config.LoadConfig.
func WithLoaderOptions(opts ...config.LoaderOption) Option {
	return func(o *appOptions) { o.loaderOpts = append(o.loaderOpts, opts...) }
}

// WithClientOptions adds options to every client in the registry. They are
// applied after the ones derived from the configuration.
func WithClientOptions(opts ...httpclient.Option) Option {
	return func(o *appOptions) { o.clientOpts = append(o.clientOpts, opts...) }
}

// WithConfigOverride changes the loaded configuration before defaults and
// validation are applied.
func WithConfigOverride(fn func(*Config)) Option {
	return func(o *appOptions) { o.overrides = append(o.overrides, fn) }
}
