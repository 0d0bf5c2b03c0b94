package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kiwi-automation/kiwi/utils"
)

// FileBackend keeps every value in one JSON object on disk and rewrites
// the file after each change.
type FileBackend struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// OpenFile loads path, which may not exist yet.
func OpenFile(path string) (*FileBackend, error) {
	b := &FileBackend{
		path:   path,
		values: make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		utils.Verbose("Store file %s does not exist yet", path)
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &b.values); err != nil {
			return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
		}
	}
	return b, nil
}

func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Get(key string) (json.RawMessage, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[key]
	return v, ok, nil
}

func (b *FileBackend) Set(key string, value json.RawMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	values := make(map[string]json.RawMessage, len(b.values)+1)
	for k, v := range b.values {
		values[k] = v
	}
	values[key] = value
	return b.replace(values)
}

func (b *FileBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.replace(make(map[string]json.RawMessage))
}

func (b *FileBackend) Close() error {
	return nil
}

// replace saves values and only then makes them current, so a failed write
// leaves memory matching the file.
func (b *FileBackend) replace(values map[string]json.RawMessage) error {
	if err := b.save(values); err != nil {
		return err
	}
	b.values = values
	return nil
}

// save writes to a temporary file and renames it over the target.
func (b *FileBackend) save(values map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
