// Package app implements the entityhttp command tree.
package app

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/entityhttp/bootstrap"
	"github.com/kbukum/entityhttp/config"
	"github.com/kbukum/entityhttp/logger"
	"github.com/kbukum/entityhttp/observability"
)

const defaultService = "entityhttp"

// GlobalOptions holds flags shared by every command.
type GlobalOptions struct {
	Service    string
	ConfigFile string
	EnvFile    string
	EnvPrefix  string
	Verbose    bool
	Trace      bool
}

// NewEntityHTTPCommand creates the root command with all subcommands.
// Errors are returned to the caller unprinted.
func NewEntityHTTPCommand() *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:   "entityhttp",
		Short: "Send HTTP requests on behalf of configured entities",
		Long: `entityhttp loads a service configuration with one HTTP client per entity
and sends requests through them. Every request carries the entity in the
X-Entity header and the authentication configured for that entity.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Service, "service", defaultService,
		"service name used to locate config.yml and .env files")
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "",
		"explicit configuration file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "",
		"explicit .env file")
	cmd.PersistentFlags().StringVar(&opts.EnvPrefix, "env-prefix", "",
		"prefix for environment variable overrides")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false,
		"log request details to stderr")
	cmd.PersistentFlags().BoolVar(&opts.Trace, "trace", false,
		"print request spans to stderr")

	cmd.AddCommand(
		NewRequestCommand(opts),
		NewEntitiesCommand(opts),
		NewSecretCommand(opts),
		NewVersionCommand(opts),
	)
	return cmd
}

func (o *GlobalOptions) loaderOptions() []config.LoaderOption {
	var opts []config.LoaderOption
	if o.ConfigFile != "" {
		opts = append(opts, config.WithConfigFile(o.ConfigFile))
	}
	if o.EnvFile != "" {
		opts = append(opts, config.WithEnvFile(o.EnvFile))
	}
	if o.EnvPrefix != "" {
		opts = append(opts, config.WithEnvPrefix(o.EnvPrefix))
	}
	return opts
}

// newApp builds the application for a command run. Logs go to stderr so
// stdout carries only command output.
func (o *GlobalOptions) newApp(cmd *cobra.Command) (*bootstrap.App, error) {
	service := o.Service
	if service == "" {
		service = defaultService
	}
	level := "warn"
	if o.Verbose {
		level = "debug"
	}
	log := logger.NewWithWriter(&logger.Config{Level: level, Format: logger.FormatConsole}, service, cmd.ErrOrStderr())

	opts := []bootstrap.Option{
		bootstrap.WithLogger(log),
		bootstrap.WithLoaderOptions(o.loaderOptions()...),
	}
	if o.Trace {
		stderr := cmd.ErrOrStderr()
		opts = append(opts, bootstrap.WithConfigOverride(func(c *bootstrap.Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = observability.ExporterStdout
			c.Tracing.Writer = stderr
		}))
	}
	return bootstrap.New(cmd.Context(), service, opts...)
}
