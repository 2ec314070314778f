//go:build !darwin

package crypto

import (
	"errors"
	"fmt"
)

type fallbackKeyring struct{}

func newPlatformKeyring() Keyring {
	return &fallbackKeyring{}
}

// GetKey retrieves the encryption key from the ORIONLEDGER_DB_KEY environment variable
func (k *fallbackKeyring) GetKey() (string, error) {
	key, ok := envKey()
	if !ok {
		return "", fmt.Errorf("%s environment variable not set", EnvKey)
	}
	return key, nil
}

// SetKey cannot persist anything without a keyring
func (k *fallbackKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	return fmt.Errorf("%w: set %s to reuse this password", ErrUnavailable, EnvKey)
}

func (k *fallbackKeyring) DeleteKey() error {
	return fmt.Errorf("%w: unset %s manually", ErrUnavailable, EnvKey)
}

// IsAvailable checks if the ORIONLEDGER_DB_KEY environment variable is set
func (k *fallbackKeyring) IsAvailable() bool {
	_, ok := envKey()
	return ok
}
