package httpclient

import (
	"github.com/kbukum/entityhttp/errors"
)

const (
	msgMissingConfig   = "HttpClient missing `httpConfig`"
	msgInvalidConfig   = "HttpClient received invalid config, config must be a mapping"
	msgEmptyConfig     = "HttpClient received empty config"
	msgStrategyType    = "`httpAuthStrategy` must be a string"
	msgInvalidStrategy = "Invalid `httpAuthStrategy` received"
	msgEmptyEntity     = "`entity` can not be null/empty"
)

// ValidateConfiguration checks that v is a usable httpConfig value: a
// Configuration, a *Configuration or a map[string]any that is present and
// not empty. It has no side effects.
func ValidateConfiguration(v any) error {
	switch c := v.(type) {
	case nil:
		return errors.Configuration(msgMissingConfig)
	case *Configuration:
		if c == nil {
			return errors.Configuration(msgMissingConfig)
		}
		if c.IsZero() {
			return errors.Configuration(msgEmptyConfig)
		}
	case Configuration:
		if c.IsZero() {
			return errors.Configuration(msgEmptyConfig)
		}
	case map[string]any:
		if c == nil {
			return errors.Configuration(msgMissingConfig)
		}
		if isEmptyMap(c) {
			return errors.Configuration(msgEmptyConfig)
		}
	default:
		return errors.Configuration(msgInvalidConfig)
	}
	return nil
}

// isEmptyMap treats a map holding only nil values as empty.
func isEmptyMap(m map[string]any) bool {
	for _, v := range m {
		if v != nil {
			return false
		}
	}
	return true
}

// ValidateAuthStrategy checks that v is a string naming a supported strategy.
func ValidateAuthStrategy(v any) error {
	var s AuthStrategy
	switch t := v.(type) {
	case AuthStrategy:
		s = t
	case string:
		s = AuthStrategy(t)
	default:
		return errors.Configuration(msgStrategyType)
	}
	if !s.Valid() {
		return errors.Configuration(msgInvalidStrategy).WithDetail("strategy", string(s))
	}
	return nil
}
