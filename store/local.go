package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Registered local keys.
const (
	KeyProjectRootDirectory = "projectRootDirectory"
	KeyIsPythonAttributed   = "isPythonAttributed"
)

var ErrKeyNotRegistered = errors.New("key not registered")

type KeyNotRegisteredError struct {
	Key string
}

func (e *KeyNotRegisteredError) Error() string {
	return fmt.Sprintf("LocalStore key %s is not registered.", e.Key)
}

func (e *KeyNotRegisteredError) Is(target error) bool {
	return target == ErrKeyNotRegistered
}

// Opener creates the backend on first use.
type Opener func() (Backend, error)

// LocalStore is a small key-value store limited to a fixed set of keys.
// The backend is opened lazily by the first operation.
type LocalStore struct {
	mu      sync.Mutex
	keys    []string
	open    Opener
	backend Backend
}

func NewLocalStore(open Opener) *LocalStore {
	return &LocalStore{
		keys: []string{KeyProjectRootDirectory, KeyIsPythonAttributed},
		open: open,
	}
}

// Keys returns the registered keys.
func (s *LocalStore) Keys() []string {
	return slices.Clone(s.keys)
}

func (s *LocalStore) IsRegistered(key string) bool {
	return slices.Contains(s.keys, key)
}

// Init opens the backend if it is not open yet.
func (s *LocalStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.ensure()
	return err
}

func (s *LocalStore) ensure() (Backend, error) {
	if s.backend != nil {
		return s.backend, nil
	}
	b, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	s.backend = b
	return b, nil
}

// Get returns the stored value decoded from JSON, or nil when the key is
// unset or not registered. Unregistered keys never reach the backend.
func (s *LocalStore) Get(key string) (interface{}, error) {
	var v interface{}
	if _, err := s.GetInto(key, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// GetInto decodes the stored value into dest and reports whether one was
// found.
func (s *LocalStore) GetInto(key string, dest interface{}) (bool, error) {
	if !s.IsRegistered(key) {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.ensure()
	if err != nil {
		return false, err
	}

	raw, ok, err := b.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("invalid value stored for %s: %w", key, err)
	}
	return true, nil
}

// Set stores value as JSON. An unregistered key fails with
// *KeyNotRegisteredError before the backend is touched.
func (s *LocalStore) Set(key string, value interface{}) error {
	if !s.IsRegistered(key) {
		return &KeyNotRegisteredError{Key: key}
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.ensure()
	if err != nil {
		return err
	}
	return b.Set(key, raw)
}

func (s *LocalStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.ensure()
	if err != nil {
		return err
	}
	return b.Clear()
}

func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil {
		return nil
	}
	err := s.backend.Close()
	s.backend = nil
	return err
}
