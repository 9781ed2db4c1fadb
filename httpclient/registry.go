package httpclient

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/entityhttp/config"
	"github.com/kbukum/entityhttp/errors"
	"github.com/kbukum/entityhttp/logger"
	"github.com/kbukum/entityhttp/security"
	"github.com/kbukum/entityhttp/validation"
)

// EntityConfig is the file form of one client.
//
//	clients:
//	  - entity: NG
//	    base_url: https://ng.example.com
//	    timeout: 30s
//	    auth_strategy: API_KEY
//	    api_key: keyring:ng-api-key
//	    tls:
//	      ca_file: /etc/ssl/ng-ca.pem
type EntityConfig struct {
	Entity        string              `yaml:"entity" mapstructure:"entity"`
	Configuration `yaml:",inline" mapstructure:",squash"`
	AuthStrategy  AuthStrategy        `yaml:"auth_strategy" mapstructure:"auth_strategy"`
	TLS           *security.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// Validate checks the entry without building a client.
func (e EntityConfig) Validate() error {
	v := validation.New().WithCode(errors.ErrCodeConfiguration).
		Required("entity", e.Entity).
		Required("base_url", e.BaseURL).
		OneOf("auth_strategy", string(e.AuthStrategy), strategyNames())
	switch e.AuthStrategy {
	case AuthBasic:
		v.Required("username", e.Username).Required("password", e.Password)
	case AuthAPIKey:
		v.Required("api_key", e.APIKey)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return e.TLS.Validate()
}

func strategyNames() []string {
	names := make([]string, 0, 3)
	for _, s := range AuthStrategies() {
		names = append(names, string(s))
	}
	return names
}

// FileConfig is the configuration file layout read by LoadRegistry.
type FileConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Clients              []EntityConfig `yaml:"clients" mapstructure:"clients"`
}

// ApplyDefaults fills in service defaults.
func (c *FileConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
}

// Validate checks the service section and every client entry.
func (c *FileConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return errors.Configuration(err.Error()).WithCause(err)
	}
	if len(c.Clients) == 0 {
		return errors.MissingConfigField("at least one client is required", "clients")
	}
	var errs []error
	for i, entry := range c.Clients {
		if err := entry.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("clients[%d]: %w", i, err))
		}
	}
	return stderrors.Join(errs...)
}

// Registry holds one client per entity.
type Registry struct {
	clients map[string]*Client
	order   []string
}

// NewRegistry builds and configures a client for every entry. All entry
// errors are reported together.
func NewRegistry(entries []EntityConfig, opts ...Option) (*Registry, error) {
	r := &Registry{clients: make(map[string]*Client, len(entries))}
	var errs []error
	for _, entry := range entries {
		client, err := newEntityClient(entry, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("entity %q: %w", entry.Entity, err))
			continue
		}
		if _, dup := r.clients[entry.Entity]; dup {
			errs = append(errs, errors.Configuration(fmt.Sprintf("entity %q is configured more than once", entry.Entity)))
			continue
		}
		r.clients[entry.Entity] = client
		r.order = append(r.order, entry.Entity)
	}
	if err := stderrors.Join(errs...); err != nil {
		return nil, err
	}
	return r, nil
}

// newEntityClient builds the client of one entry. An entry with TLS settings
// gets its own HTTPTransport, replacing any transport given in opts.
func newEntityClient(entry EntityConfig, opts []Option) (*Client, error) {
	tlsCfg, err := entry.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		opts = append(slices.Clone(opts), WithTransport(NewHTTPTransport(WithTLSConfig(tlsCfg))))
	}

	client, err := GetForEntity(entry.Entity, opts...)
	if err != nil {
		return nil, err
	}
	cfg := entry.Configuration
	if err := resolveCredentials(&cfg); err != nil {
		return nil, err
	}
	if err := client.SetHTTPConfig(&cfg); err != nil {
		return nil, err
	}
	if entry.AuthStrategy != "" {
		if err := client.SetHTTPAuthStrategy(entry.AuthStrategy); err != nil {
			return nil, err
		}
	}
	return client, nil
}

// resolveCredentials replaces keyring: and env: references in the
// credential fields with the values they point to.
func resolveCredentials(cfg *Configuration) error {
	for _, field := range []*string{&cfg.Username, &cfg.Password, &cfg.APIKey} {
		value, err := security.ResolveSecret(*field)
		if err != nil {
			return err
		}
		*field = value
	}
	return nil
}

// For returns the client of entity.
func (r *Registry) For(entity string) (*Client, error) {
	client, ok := r.clients[entity]
	if !ok {
		return nil, errors.Validation(fmt.Sprintf("no http client registered for entity %q", entity)).
			WithDetail("known", strings.Join(r.order, ","))
	}
	return client, nil
}

// Entities returns the registered entity names in configuration order.
func (r *Registry) Entities() []string {
	return append([]string(nil), r.order...)
}

// LoadRegistry reads the service configuration file (see config.LoadConfig),
// validates it and builds the registry. Unless opts carries a logger, clients
// log through a logger built from the file's logging section.
func LoadRegistry(serviceName string, opts []Option, loaderOpts ...config.LoaderOption) (*Registry, *FileConfig, error) {
	var fc FileConfig
	if err := config.LoadConfig(serviceName, &fc, loaderOpts...); err != nil {
		return nil, nil, errors.Configuration("failed to load http client configuration").WithCause(err)
	}
	fc.ApplyDefaults()
	if err := fc.Validate(); err != nil {
		return nil, nil, err
	}

	log := logger.New(&fc.Logging, fc.Name).WithComponent("httpclient")

	registry, err := NewRegistry(fc.Clients, append([]Option{WithLogger(log)}, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	log.Info("http clients ready", logger.Fields("entities", registry.Entities()))
	return registry, &fc, nil
}
