package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/qustavo/dotsql"
)

//go:embed queries/settings.sql
var settingsSQL string

// SQLBackend keeps values in a settings table shared by every namespace.
type SQLBackend struct {
	db        *sqlx.DB
	dot       *dotsql.DotSql
	namespace string
}

// OpenSQL connects to dsn and creates the settings table if needed.
// Supported URL schemes: sqlite:///path/to/kiwi.db and postgres://...
func OpenSQL(dsn, namespace string) (*SQLBackend, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}

	var driverName, dataSource string
	switch u.Scheme {
	case "sqlite":
		driverName = "sqlite3"
		// sqlite://file.db is relative, sqlite:///abs/file.db absolute
		if u.Host != "" {
			dataSource = u.Host + u.Path
		} else {
			dataSource = u.Path
		}
	case "postgres":
		driverName = "postgres"
		dataSource = dsn
	default:
		return nil, fmt.Errorf("unsupported database scheme: %s (expected sqlite or postgres)", u.Scheme)
	}

	db, err := sqlx.Open(driverName, dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driverName == "sqlite3" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return newOwnedSQLBackend(db, namespace)
}

// newOwnedSQLBackend is NewSQLBackend for a db the backend owns: db is
// closed when the backend cannot be set up.
func newOwnedSQLBackend(db *sqlx.DB, namespace string) (*SQLBackend, error) {
	b, err := NewSQLBackend(db, namespace)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// NewSQLBackend uses an already open database.
func NewSQLBackend(db *sqlx.DB, namespace string) (*SQLBackend, error) {
	dot, err := dotsql.LoadFromString(settingsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse queries: %w", err)
	}

	b := &SQLBackend{db: db, dot: dot, namespace: namespace}
	if _, err := b.exec("create-settings"); err != nil {
		return nil, fmt.Errorf("failed to create settings table: %w", err)
	}
	return b, nil
}

func (b *SQLBackend) query(name string) (string, error) {
	q, err := b.dot.Raw(name)
	if err != nil {
		return "", fmt.Errorf("query not found: %s", name)
	}
	return b.db.Rebind(q), nil
}

func (b *SQLBackend) exec(name string, args ...interface{}) (sql.Result, error) {
	q, err := b.query(name)
	if err != nil {
		return nil, err
	}
	return b.db.Exec(q, args...)
}

func (b *SQLBackend) Get(key string) (json.RawMessage, bool, error) {
	q, err := b.query("get-setting")
	if err != nil {
		return nil, false, err
	}

	var value string
	err = b.db.Get(&value, q, b.namespace, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return json.RawMessage(value), true, nil
}

func (b *SQLBackend) Set(key string, value json.RawMessage) error {
	if _, err := b.exec("put-setting", b.namespace, key, string(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (b *SQLBackend) Clear() error {
	if _, err := b.exec("clear-settings", b.namespace); err != nil {
		return fmt.Errorf("failed to clear settings: %w", err)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}
