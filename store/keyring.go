package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
	"go.uber.org/multierr"
)

const (
	keyringService = "kiwi"
	// keyringIndex lists the keys written so Clear can find them.
	keyringIndex = "__keys"
)

// KeyringBackend keeps each value as a secret in the OS keyring under
// service.
type KeyringBackend struct {
	mu      sync.Mutex
	service string
}

func NewKeyringBackend(service string) *KeyringBackend {
	return &KeyringBackend{service: service}
}

func (b *KeyringBackend) Get(key string) (json.RawMessage, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	secret, err := keyring.Get(b.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s from keyring: %w", key, err)
	}
	return json.RawMessage(secret), true, nil
}

func (b *KeyringBackend) Set(key string, value json.RawMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := keyring.Set(b.service, key, string(value)); err != nil {
		return fmt.Errorf("failed to write %s to keyring: %w", key, err)
	}

	keys, err := b.index()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if k == key {
			return nil
		}
	}
	return b.writeIndex(append(keys, key))
}

func (b *KeyringBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys, err := b.index()
	if err != nil {
		return err
	}

	for _, k := range append(keys, keyringIndex) {
		if e := keyring.Delete(b.service, k); e != nil && !errors.Is(e, keyring.ErrNotFound) {
			err = multierr.Append(err, fmt.Errorf("failed to delete %s from keyring: %w", k, e))
		}
	}
	return err
}

func (b *KeyringBackend) Close() error {
	return nil
}

func (b *KeyringBackend) index() ([]string, error) {
	raw, err := keyring.Get(b.service, keyringIndex)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring index: %w", err)
	}

	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, fmt.Errorf("corrupt keyring index: %w", err)
	}
	return keys, nil
}

func (b *KeyringBackend) writeIndex(keys []string) error {
	raw, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	if err := keyring.Set(b.service, keyringIndex, string(raw)); err != nil {
		return fmt.Errorf("failed to write keyring index: %w", err)
	}
	return nil
}
