package crypto

import (
	"errors"
	"fmt"
	"os"
)

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "orionledger"
	KeyName     = "db-encryption-key"

	// EnvKey overrides the stored key on every platform
	EnvKey = "ORIONLEDGER_DB_KEY"
)

// ErrUnavailable is returned by SetKey when the platform has no keyring
var ErrUnavailable = errors.New("keyring not available on this platform")

// NewKeyring returns the best available keyring implementation
func NewKeyring() Keyring {
	return newPlatformKeyring()
}

// LoadOrCreate returns the stored database key. With no key stored it asks
// prompt for a new one and tries to store it; stored reports whether that
// worked. A key that could not be stored is still returned for this run.
func LoadOrCreate(k Keyring, prompt func() (string, error)) (key string, stored bool, err error) {
	if key, err := k.GetKey(); err == nil {
		return key, true, nil
	}

	key, err = prompt()
	if err != nil {
		return "", false, fmt.Errorf("failed to set password: %w", err)
	}

	if err := k.SetKey(key); err != nil {
		if errors.Is(err, ErrUnavailable) {
			return key, false, nil
		}
		return "", false, fmt.Errorf("failed to store encryption key: %w", err)
	}

	return key, true, nil
}

func envKey() (string, bool) {
	key := os.Getenv(EnvKey)
	return key, key != ""
}
