package httpclient

import (
	"github.com/kbukum/entityhttp/errors"
)

// AuthStrategy names how requests are authenticated.
type AuthStrategy string

const (
	// AuthBasic sends the configured username and password as HTTP Basic credentials.
	AuthBasic AuthStrategy = "BASIC"
	// AuthAPIKey sends the configured key in the X-Api-Key header.
	AuthAPIKey AuthStrategy = "API_KEY"
	// AuthNone sends no credentials.
	AuthNone AuthStrategy = "NO_AUTH"
)

// Header names set on every request.
const (
	HeaderContentType = "Content-Type"
	HeaderEntity      = "X-Entity"
	HeaderAPIKey      = "X-Api-Key"
)

const contentTypeJSON = "application/json"

// AuthStrategies returns the closed set of supported strategies.
func AuthStrategies() []AuthStrategy {
	return []AuthStrategy{AuthBasic, AuthAPIKey, AuthNone}
}

// Valid reports whether s is one of the supported strategies.
func (s AuthStrategy) Valid() bool {
	switch s {
	case AuthBasic, AuthAPIKey, AuthNone:
		return true
	}
	return false
}

func (s AuthStrategy) String() string { return string(s) }

// Auth is the credential set resolved for a strategy.
// Implementations are NoAuth, BasicAuth and APIKeyAuth.
type Auth interface {
	Strategy() AuthStrategy
	apply(opts *RequestOptions)
}

// NoAuth adds nothing to the request.
type NoAuth struct{}

// BasicAuth carries HTTP Basic credentials.
type BasicAuth struct {
	Username string
	Password string
}

// APIKeyAuth carries the key sent in the X-Api-Key header.
type APIKeyAuth struct {
	Key string
}

func (NoAuth) Strategy() AuthStrategy     { return AuthNone }
func (BasicAuth) Strategy() AuthStrategy  { return AuthBasic }
func (APIKeyAuth) Strategy() AuthStrategy { return AuthAPIKey }

func (NoAuth) apply(*RequestOptions) {}

func (a BasicAuth) apply(opts *RequestOptions) {
	opts.Auth = &Credentials{Username: a.Username, Password: a.Password}
}

func (a APIKeyAuth) apply(opts *RequestOptions) {
	opts.Headers[HeaderAPIKey] = a.Key
}

const (
	msgMissingBasicCredentials = "Cannot find `username` and `password` in httpConfig for BASIC Auth Strategy"
	msgMissingAPIKey           = "Cannot find `apiKey` in httpConfig for API_KEY Auth Strategy"
)

// ResolveAuth checks that cfg carries what strategy needs and returns the
// matching credentials. An empty strategy resolves to NoAuth.
func ResolveAuth(strategy AuthStrategy, cfg Configuration) (Auth, error) {
	switch strategy {
	case "", AuthNone:
		return NoAuth{}, nil
	case AuthBasic:
		if cfg.Username == "" || cfg.Password == "" {
			return nil, errors.MissingConfigField(msgMissingBasicCredentials, "username", "password")
		}
		return BasicAuth{Username: cfg.Username, Password: cfg.Password}, nil
	case AuthAPIKey:
		if cfg.APIKey == "" {
			return nil, errors.MissingConfigField(msgMissingAPIKey, "apiKey")
		}
		return APIKeyAuth{Key: cfg.APIKey}, nil
	default:
		return nil, errors.Configuration(msgInvalidStrategy).WithDetail("strategy", string(strategy))
	}
}
