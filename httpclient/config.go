package httpclient

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/entityhttp/config"
	"github.com/kbukum/entityhttp/errors"
	"github.com/kbukum/entityhttp/validation"
)

// DefaultTimeout applies when the configuration sets no timeout.
const DefaultTimeout = 60 * time.Second

// Configuration holds the per-entity settings used to build every request.
type Configuration struct {
	// BaseURL is prepended to request paths. Required.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Headers are merged over the default headers; keys here win.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// Username and Password are required by the BASIC strategy.
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// APIKey is required by the API_KEY strategy.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
}

// IsZero reports whether no field is set.
func (c Configuration) IsZero() bool {
	return c.BaseURL == "" &&
		len(c.Headers) == 0 &&
		c.Timeout == 0 &&
		c.Username == "" &&
		c.Password == "" &&
		c.APIKey == ""
}

// EffectiveTimeout returns Timeout, or DefaultTimeout when unset.
func (c Configuration) EffectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// Validate checks the fields required for every strategy.
func (c Configuration) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.MissingConfigField(msgMissingBaseURL, "baseUrl", "baseURL")
	}
	return validation.ValidateWithCode(c, errors.ErrCodeConfiguration)
}

func (c Configuration) clone() Configuration {
	c.Headers = maps.Clone(c.Headers)
	return c
}

const msgMissingBaseURL = "Cannot find `baseUrl` or `baseURL` in httpConfig"

// baseURLKeys are the accepted spellings of the base URL in dynamic maps,
// in precedence order.
var baseURLKeys = []string{"baseUrl", "baseURL", "base_url"}

// ConfigurationFromMap decodes a dynamic configuration map such as
//
//	{"baseUrl": "http://localhost:3000", "apiKey": "k", "timeout": 5000}
//
// Keys match fields case-insensitively with or without underscores.
// A numeric timeout is read as milliseconds, a string one as a Go duration.
func ConfigurationFromMap(m map[string]any) (Configuration, error) {
	var cfg Configuration

	rest := maps.Clone(m)
	for _, key := range baseURLKeys {
		v, ok := rest[key]
		delete(rest, key)
		if !ok || v == nil || cfg.BaseURL != "" {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return Configuration{}, errors.Configuration(fmt.Sprintf("`%s` in httpConfig must be a string", key))
		}
		cfg.BaseURL = s
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &cfg,
		DecodeHook: config.DecodeHook(),
		MatchName: func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		},
	})
	if err != nil {
		return Configuration{}, errors.Configuration("httpConfig decoder setup failed").WithCause(err)
	}
	if err := decoder.Decode(rest); err != nil {
		return Configuration{}, errors.Configuration("HttpClient received invalid httpConfig values").WithCause(err)
	}
	return cfg, nil
}

func normalizeKey(s string) string {
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToLower(s)
}
