// Package config loads kiwi settings from defaults, an optional config file
// and KIWI_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const envPrefix = "KIWI"

// Store backends understood by store.Open.
const (
	StoreBackendFile    = "file"
	StoreBackendKeyring = "keyring"
	StoreBackendSQL     = "sql"
)

// Config holds every setting of the kiwi client.
type Config struct {
	Backend BackendConfig
	Server  ServerConfig
	Store   StoreConfig
	Events  EventsConfig
	Image   ImageConfig
}

// BackendConfig locates the native backend's JSON-RPC endpoint.
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

type ServerConfig struct {
	Listen string
	CORS   bool
}

// StoreConfig selects where local settings persist. DSN is a database URL
// for the sql backend: sqlite:///path/kiwi.db or postgres://...
type StoreConfig struct {
	Backend string
	File    string
	DSN     string
}

type EventsConfig struct {
	Limit int
}

type ImageConfig struct {
	CacheSize int
}

// DefaultStoreFile returns kiwi.json inside the user config directory,
// falling back to the working directory.
func DefaultStoreFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "kiwi.json"
	}
	return filepath.Join(dir, "kiwi", "kiwi.json")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", "ws://localhost:12100/rpc")
	v.SetDefault("backend.timeout", "5s")
	v.SetDefault("server.listen", "localhost:12000")
	v.SetDefault("server.cors", false)
	v.SetDefault("store.backend", StoreBackendFile)
	v.SetDefault("store.file", DefaultStoreFile())
	v.SetDefault("store.dsn", "")
	v.SetDefault("events.limit", 200)
	v.SetDefault("image.cache_size", 32)
}

// Option adjusts the viper instance before values are read.
type Option func(v *viper.Viper) error

// WithFlag lets a command line flag override key when the flag is set.
func WithFlag(key string, flag *pflag.Flag) Option {
	return func(v *viper.Viper) error {
		if flag == nil {
			return nil
		}
		return v.BindPFlag(key, flag)
	}
}

// Load reads configuration with precedence flags > env > file > defaults.
func Load(configPath string, opts ...Option) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("failed to bind flag: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Backend: BackendConfig{
			URL:     v.GetString("backend.url"),
			Timeout: v.GetDuration("backend.timeout"),
		},
		Server: ServerConfig{
			Listen: v.GetString("server.listen"),
			CORS:   v.GetBool("server.cors"),
		},
		Store: StoreConfig{
			Backend: v.GetString("store.backend"),
			File:    v.GetString("store.file"),
			DSN:     v.GetString("store.dsn"),
		},
		Events: EventsConfig{
			Limit: v.GetInt("events.limit"),
		},
		Image: ImageConfig{
			CacheSize: v.GetInt("image.cache_size"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate reports every problem at once.
func validate(cfg *Config) error {
	var err error

	if !strings.HasPrefix(cfg.Backend.URL, "ws://") && !strings.HasPrefix(cfg.Backend.URL, "wss://") {
		err = multierr.Append(err, fmt.Errorf("backend.url must use ws:// or wss://, got '%s'", cfg.Backend.URL))
	}
	if cfg.Backend.Timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("backend.timeout must be positive, got %v", cfg.Backend.Timeout))
	}
	if cfg.Events.Limit <= 0 {
		err = multierr.Append(err, fmt.Errorf("events.limit must be positive, got %d", cfg.Events.Limit))
	}
	if cfg.Image.CacheSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("image.cache_size must be positive, got %d", cfg.Image.CacheSize))
	}

	switch cfg.Store.Backend {
	case StoreBackendFile:
		if cfg.Store.File == "" {
			err = multierr.Append(err, fmt.Errorf("store.file is required for the file backend"))
		}
	case StoreBackendKeyring:
	case StoreBackendSQL:
		if cfg.Store.DSN == "" {
			err = multierr.Append(err, fmt.Errorf("store.dsn is required for the sql backend"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown store.backend '%s' (expected file, keyring or sql)", cfg.Store.Backend))
	}

	return err
}
