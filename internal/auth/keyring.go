package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const serviceName = "globalprint"

// KeyringBackend stores each origin's record as a JSON secret in the
// system keychain.
type KeyringBackend struct {
	service string
}

// NewKeyringBackend creates a keychain-backed store.
func NewKeyringBackend() *KeyringBackend {
	return &KeyringBackend{service: serviceName}
}

// key returns the keyring key for an origin.
func key(origin string) string {
	return fmt.Sprintf("%s::%s", serviceName, origin)
}

func (k *KeyringBackend) Name() string { return "keyring" }

func (k *KeyringBackend) Load(origin string) (*Record, error) {
	data, err := keyring.Get(k.service, key(origin))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading keyring: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}
	return &rec, nil
}

func (k *KeyringBackend) Save(origin string, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return keyring.Set(k.service, key(origin), string(data))
}

func (k *KeyringBackend) Delete(origin string) error {
	err := keyring.Delete(k.service, key(origin))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// NewDefaultBackend prefers the system keychain and falls back to a
// credentials file in dir. GLOBALPRINT_NO_KEYRING forces the file.
func NewDefaultBackend(dir string, logger *slog.Logger) Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if os.Getenv("GLOBALPRINT_NO_KEYRING") != "" {
		return NewFileBackend(dir)
	}

	// Probe with a throwaway secret
	testKey := serviceName + "::probe"
	if err := keyring.Set(serviceName, testKey, "probe"); err == nil {
		_ = keyring.Delete(serviceName, testKey)
		return NewKeyringBackend()
	}

	logger.Warn("system keyring unavailable, credentials stored in plaintext",
		"path", filepath.Join(dir, credentialsFile))
	return NewFileBackend(dir)
}
