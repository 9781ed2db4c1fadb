package security

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/kbukum/entityhttp/errors"
)

// KeyringService is the keyring service name secrets are stored under.
const KeyringService = "entityhttp"

// Secret reference prefixes accepted by ResolveSecret.
const (
	PrefixKeyring = "keyring:"
	PrefixEnv     = "env:"
)

// ResolveSecret returns the value a credential refers to. "keyring:<key>"
// reads the system keyring, "env:<NAME>" reads the environment, anything
// else is returned unchanged.
func ResolveSecret(ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, PrefixKeyring):
		key := strings.TrimPrefix(ref, PrefixKeyring)
		value, err := keyring.Get(KeyringService, key)
		if stderrors.Is(err, keyring.ErrNotFound) {
			return "", errors.Configuration(fmt.Sprintf("secret %q not found in keyring", key))
		}
		if err != nil {
			return "", errors.Configuration("failed to read keyring").WithCause(err)
		}
		return value, nil
	case strings.HasPrefix(ref, PrefixEnv):
		name := strings.TrimPrefix(ref, PrefixEnv)
		value, ok := os.LookupEnv(name)
		if !ok {
			return "", errors.Configuration(fmt.Sprintf("environment variable %q is not set", name))
		}
		return value, nil
	default:
		return ref, nil
	}
}

// StoreSecret saves value in the system keyring under key, so that
// "keyring:<key>" resolves to it.
func StoreSecret(key, value string) error {
	if key == "" {
		return errors.MissingField("key")
	}
	if err := keyring.Set(KeyringService, key, value); err != nil {
		return errors.Configuration("failed to write keyring").WithCause(err)
	}
	return nil
}

// DeleteSecret removes key from the system keyring.
func DeleteSecret(key string) error {
	err := keyring.Delete(KeyringService, key)
	if stderrors.Is(err, keyring.ErrNotFound) {
		return errors.Configuration(fmt.Sprintf("secret %q not found in keyring", key))
	}
	if err != nil {
		return errors.Configuration("failed to delete from keyring").WithCause(err)
	}
	return nil
}
