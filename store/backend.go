// Package store persists small client settings behind a fixed key
// allow-list, over a file, the OS keyring or a SQL database.
package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/kiwi-automation/kiwi/config"
)

// Namespaces keep the local settings and the UI state apart on a shared
// medium.
const (
	NamespaceLocal = "local"
	NamespaceState = "state"
)

// Backend stores JSON values by key. Implementations must be safe for
// concurrent use.
type Backend interface {
	Get(key string) (value json.RawMessage, ok bool, err error)
	Set(key string, value json.RawMessage) error
	Clear() error
	Close() error
}

// Open returns the backend selected by cfg for namespace.
func Open(cfg config.StoreConfig, namespace string) (Backend, error) {
	switch cfg.Backend {
	case config.StoreBackendFile:
		return OpenFile(filePath(cfg.File, namespace))
	case config.StoreBackendKeyring:
		return NewKeyringBackend(keyringService + "." + namespace), nil
	case config.StoreBackendSQL:
		return OpenSQL(cfg.DSN, namespace)
	default:
		return nil, fmt.Errorf("unknown store backend '%s'", cfg.Backend)
	}
}

// filePath keeps the local namespace at file and puts others next to it.
func filePath(file, namespace string) string {
	if namespace == NamespaceLocal {
		return file
	}
	return filepath.Join(filepath.Dir(file), namespace+".json")
}
