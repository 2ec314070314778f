package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKeyring struct {
	key    string
	setErr error
	sets   int
}

func (m *memKeyring) GetKey() (string, error) {
	if m.key == "" {
		return "", errors.New("no key")
	}
	return m.key, nil
}

func (m *memKeyring) SetKey(password string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.key = password
	m.sets++
	return nil
}

func (m *memKeyring) DeleteKey() error {
	m.key = ""
	return nil
}

func (m *memKeyring) IsAvailable() bool { return true }

func TestLoadOrCreate_UsesStoredKey(t *testing.T) {
	k := &memKeyring{key: "s3cret"}
	key, stored, err := LoadOrCreate(k, func() (string, error) {
		t.Fatal("prompt should not be called")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "s3cret", key)
	assert.True(t, stored)
}

func TestLoadOrCreate_PromptsAndStores(t *testing.T) {
	k := &memKeyring{}
	key, stored, err := LoadOrCreate(k, func() (string, error) { return "fresh", nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", key)
	assert.True(t, stored)
	assert.Equal(t, 1, k.sets)
}

func TestLoadOrCreate_UnavailableKeyringStillReturnsKey(t *testing.T) {
	k := &memKeyring{setErr: ErrUnavailable}
	key, stored, err := LoadOrCreate(k, func() (string, error) { return "fresh", nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", key)
	assert.False(t, stored)
}

func TestLoadOrCreate_PromptError(t *testing.T) {
	k := &memKeyring{}
	_, _, err := LoadOrCreate(k, func() (string, error) { return "", errors.New("passwords do not match") })
	assert.Error(t, err)
}

func TestNewKeyring_EnvOverride(t *testing.T) {
	t.Setenv(EnvKey, "from-env")
	key, err := NewKeyring().GetKey()
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}
