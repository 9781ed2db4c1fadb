package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/entityhttp/config"
	"github.com/kbukum/entityhttp/errors"
	"github.com/kbukum/entityhttp/httpclient"
	"github.com/kbukum/entityhttp/logger"
	"github.com/kbukum/entityhttp/observability"
	"github.com/kbukum/entityhttp/version"
)

const meterName = "github.com/kbukum/entityhttp/httpclient"

// App holds the configured clients and the telemetry they report to.
type App struct {
	Name     string
	Version  string
	Cfg      *Config
	Logger   *logger.Logger
	Registry *httpclient.Registry

	gracefulTimeout time.Duration
	onStop          []Hook
	stopped         bool
}

// New loads the configuration of serviceName, initializes logging and the
// enabled telemetry providers, and builds one client per configured entity.
// Providers started before a failure are shut down before New returns.
func New(ctx context.Context, serviceName string, opts ...Option) (*App, error) {
	o := resolveOptions(opts)

	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, o.loaderOpts...); err != nil {
		return nil, errors.Configuration("failed to load configuration").WithCause(err)
	}
	for _, override := range o.overrides {
		override(cfg)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := o.logger
	if log == nil {
		log = logger.New(&cfg.Logging, cfg.Name)
	}
	logger.SetGlobalLogger(log)

	app := &App{
		Name:            cfg.Name,
		Version:         version.Get().Short(),
		Cfg:             cfg,
		Logger:          log,
		gracefulTimeout: o.gracefulTimeout,
	}

	clientOpts, err := app.initTelemetry(ctx)
	if err != nil {
		_ = app.Shutdown(ctx)
		return nil, err
	}
	clientOpts = append(clientOpts, o.clientOpts...)

	registry, err := httpclient.NewRegistry(cfg.Clients, clientOpts...)
	if err != nil {
		_ = app.Shutdown(ctx)
		return nil, err
	}
	app.Registry = registry

	log.Info("Application ready", logger.Fields(
		"version", app.Version,
		"entities", registry.Entities(),
		"tracing", cfg.Tracing.Enabled,
		"metrics", cfg.Metrics.Enabled,
	))
	return app, nil
}

// initTelemetry starts the enabled providers, registers their shutdown as
// stop hooks and returns the client options that report to them.
func (a *App) initTelemetry(ctx context.Context) ([]httpclient.Option, error) {
	opts := []httpclient.Option{httpclient.WithLogger(a.Logger.WithComponent("httpclient"))}

	if a.Cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, a.Cfg.Tracing.TracerConfig)
		if err != nil {
			return nil, errors.Configuration("failed to initialize tracing").WithCause(err)
		}
		a.OnStop(tp.Shutdown)
		opts = append(opts, httpclient.WithTracing())
	}

	if a.Cfg.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, a.Cfg.Metrics.MeterConfig)
		if err != nil {
			return nil, errors.Configuration("failed to initialize metrics").WithCause(err)
		}
		a.OnStop(mp.Shutdown)
		metrics, err := observability.NewRequestMetrics(mp.Meter(meterName))
		if err != nil {
			return nil, errors.Configuration("failed to create request metrics").WithCause(err)
		}
		opts = append(opts, httpclient.WithMetrics(metrics))
	}
	return opts, nil
}

// RunTask runs task until it returns or the process receives SIGINT or
// SIGTERM, then runs the stop hooks. The task's error wins over a stop
// hook error and is left to the caller to report.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context, app *App) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a.Logger.Debug("Running task", logger.Fields("service", a.Name))
	taskErr := task(ctx, a)
	if taskErr != nil {
		a.Logger.Debug("Task failed", logger.Fields(logger.FieldError, taskErr.Error()))
	}

	stopErr := a.Shutdown(context.WithoutCancel(ctx))
	if taskErr != nil {
		return taskErr
	}
	return stopErr
}

// Shutdown runs the stop hooks once, bounded by the graceful timeout.
func (a *App) Shutdown(ctx context.Context) error {
	if a.stopped {
		return nil
	}
	a.stopped = true

	ctx, cancel := context.WithTimeout(ctx, a.gracefulTimeout)
	defer cancel()

	if err := runHooksReverse(ctx, a.onStop); err != nil {
		a.Logger.Warn("Stop hook failed", logger.Fields(logger.FieldError, err.Error()))
		return err
	}
	a.Logger.Debug("Shutdown complete")
	return nil
}
