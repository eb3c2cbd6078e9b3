package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// "Service" groups this tool's secrets in the OS keychain.
	KeyringService = "apollo-gatherer"
	keyringAccount = "api-key"

	EnvVar = "APOLLO_API_KEY"
)

// ResolveAPIKey returns the first key found: the explicit flag value, the
// APOLLO_API_KEY environment variable, then the OS keychain.
func ResolveAPIKey(flagValue string) (string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, nil
	}
	if v := strings.TrimSpace(os.Getenv(EnvVar)); v != "" {
		return v, nil
	}
	if v, err := keyring.Get(KeyringService, keyringAccount); err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), nil
	}
	return "", errors.New("apollo api key not found (use --api-key, set " + EnvVar + ", or store one with --set-key)")
}

// StoreAPIKey saves key in the OS keychain.
func StoreAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, strings.TrimSpace(key))
}

// DeleteAPIKey removes the stored key from the OS keychain.
func DeleteAPIKey() error {
	return keyring.Delete(KeyringService, keyringAccount)
}
