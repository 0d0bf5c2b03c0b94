package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/kiwi-automation/kiwi/config"
	"github.com/kiwi-automation/kiwi/kiwi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// backends returns a fresh instance of every Backend implementation.
func backends(t *testing.T) map[string]func() Backend {
	keyring.MockInit()

	return map[string]func() Backend{
		"file": func() Backend {
			b, err := OpenFile(filepath.Join(t.TempDir(), "kiwi.json"))
			require.NoError(t, err)
			return b
		},
		"keyring": func() Backend {
			return NewKeyringBackend("kiwi-test." + t.Name())
		},
		"sql": func() Backend {
			b, err := OpenSQL("sqlite://"+filepath.Join(t.TempDir(), "kiwi.db"), NamespaceLocal)
			require.NoError(t, err)
			return b
		},
	}
}

func TestBackends(t *testing.T) {
	for name, newBackend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			b := newBackend()
			defer b.Close()

			_, ok, err := b.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, b.Set("a", json.RawMessage(`"one"`)))
			require.NoError(t, b.Set("b", json.RawMessage(`true`)))
			require.NoError(t, b.Set("a", json.RawMessage(`"two"`)))

			v, ok, err := b.Get("a")
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `"two"`, string(v))

			require.NoError(t, b.Clear())
			_, ok, err = b.Get("b")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFileBackend_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kiwi.json")

	b, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, b.Set(KeyProjectRootDirectory, json.RawMessage(`"/projects"`)))

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get(KeyProjectRootDirectory)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `"/projects"`, string(v))
}

func TestFileBackend_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiwi.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := OpenFile(path)
	assert.Error(t, err)
}

func TestFileBackend_FailedSaveKeepsMemory(t *testing.T) {
	dir := t.TempDir()
	b, err := OpenFile(filepath.Join(dir, "kiwi.json"))
	require.NoError(t, err)
	require.NoError(t, b.Set(KeyProjectRootDirectory, json.RawMessage(`"/projects"`)))

	// invalid JSON cannot be encoded into the file
	err = b.Set(KeyIsPythonAttributed, json.RawMessage(`{`))
	require.Error(t, err)
	_, ok, err := b.Get(KeyIsPythonAttributed)
	require.NoError(t, err)
	assert.False(t, ok)

	// a file in place of the directory makes every write fail
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, nil, 0o600))
	b.path = filepath.Join(blocked, "kiwi.json")

	require.Error(t, b.Set(KeyProjectRootDirectory, json.RawMessage(`"/other"`)))
	require.Error(t, b.Clear())

	v, ok, err := b.Get(KeyProjectRootDirectory)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `"/projects"`, string(v))
}

func TestOpenSQL_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiwi.db")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("not a database "), 400), 0o600))

	_, err := OpenSQL("sqlite://"+path, NamespaceLocal)
	assert.ErrorContains(t, err, "failed to create settings table")

	db, err := sqlx.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = newOwnedSQLBackend(db, NamespaceLocal)
	require.Error(t, err)
	assert.ErrorContains(t, db.Ping(), "database is closed")
}

func TestSQLBackend_NamespacesAreSeparate(t *testing.T) {
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "kiwi.db")

	local, err := OpenSQL(dsn, NamespaceLocal)
	require.NoError(t, err)
	defer local.Close()
	st, err := OpenSQL(dsn, NamespaceState)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, local.Set("k", json.RawMessage(`1`)))
	require.NoError(t, st.Set("k", json.RawMessage(`2`)))
	require.NoError(t, local.Clear())

	_, ok, err := local.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := st.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `2`, string(v))
}

func TestOpenSQL_UnsupportedScheme(t *testing.T) {
	_, err := OpenSQL("mysql://localhost/kiwi", NamespaceLocal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database scheme")
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	cfg := config.StoreConfig{Backend: config.StoreBackendFile, File: filepath.Join(dir, "kiwi.json")}

	b, err := Open(cfg, NamespaceState)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "state.json"), b.(*FileBackend).Path())

	keyring.MockInit()
	b, err = Open(config.StoreConfig{Backend: config.StoreBackendKeyring}, NamespaceLocal)
	require.NoError(t, err)
	assert.IsType(t, &KeyringBackend{}, b)

	_, err = Open(config.StoreConfig{Backend: "redis"}, NamespaceLocal)
	assert.Error(t, err)
}

// countingBackend records how often it is reached.
type countingBackend struct {
	Backend
	calls int
}

func (c *countingBackend) Get(key string) (json.RawMessage, bool, error) {
	c.calls++
	return c.Backend.Get(key)
}

func (c *countingBackend) Set(key string, value json.RawMessage) error {
	c.calls++
	return c.Backend.Set(key, value)
}

func newTestLocalStore(t *testing.T) (*LocalStore, *countingBackend, *int) {
	fb, err := OpenFile(filepath.Join(t.TempDir(), "kiwi.json"))
	require.NoError(t, err)
	cb := &countingBackend{Backend: fb}
	opened := 0
	s := NewLocalStore(func() (Backend, error) {
		opened++
		return cb, nil
	})
	return s, cb, &opened
}

func TestLocalStore_RoundTrip(t *testing.T) {
	s, _, opened := newTestLocalStore(t)
	assert.Equal(t, 0, *opened, "backend opens lazily")

	require.NoError(t, s.Set(KeyProjectRootDirectory, "/home/user/projects"))
	require.NoError(t, s.Set(KeyIsPythonAttributed, true))

	v, err := s.Get(KeyProjectRootDirectory)
	require.NoError(t, err)
	assert.Equal(t, "/home/user/projects", v)

	var attributed bool
	found, err := s.GetInto(KeyIsPythonAttributed, &attributed)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, attributed)

	assert.Equal(t, 1, *opened)
}

func TestLocalStore_UnsetKeyIsNil(t *testing.T) {
	s, _, _ := newTestLocalStore(t)

	v, err := s.Get(KeyIsPythonAttributed)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestLocalStore_UnregisteredKeys(t *testing.T) {
	s, cb, opened := newTestLocalStore(t)

	v, err := s.Get("theme")
	require.NoError(t, err)
	assert.Nil(t, v)

	err = s.Set("theme", "dark")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyNotRegistered)

	var notRegistered *KeyNotRegisteredError
	require.True(t, errors.As(err, &notRegistered))
	assert.Equal(t, "theme", notRegistered.Key)
	assert.Equal(t, "LocalStore key theme is not registered.", err.Error())

	assert.Equal(t, 0, cb.calls)
	assert.Equal(t, 0, *opened)
}

func TestLocalStore_Clear(t *testing.T) {
	s, _, _ := newTestLocalStore(t)
	require.NoError(t, s.Set(KeyProjectRootDirectory, "/p"))
	require.NoError(t, s.Clear())

	v, err := s.Get(KeyProjectRootDirectory)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestLocalStore_OpenFailure(t *testing.T) {
	s := NewLocalStore(func() (Backend, error) {
		return nil, errors.New("disk full")
	})

	err := s.Set(KeyProjectRootDirectory, "/p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func newStateBackend(t *testing.T) Backend {
	b, err := OpenFile(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	return b
}

func TestStateStore_NotInitialized(t *testing.T) {
	s := NewStateStore(newStateBackend(t))

	_, err := s.App()
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = s.Zoom()
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = s.ZoomIn()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.False(t, s.Initialized())
}

func TestStateStore_Defaults(t *testing.T) {
	s := NewStateStore(newStateBackend(t))
	require.NoError(t, s.Init())
	require.NoError(t, s.Init())

	z, err := s.Zoom()
	require.NoError(t, err)
	assert.Equal(t, DefaultZoom(), z)

	app, err := s.App()
	require.NoError(t, err)
	assert.Equal(t, AppState{}, app)
}

func TestStateStore_ZoomIsClamped(t *testing.T) {
	s := NewStateStore(newStateBackend(t))
	require.NoError(t, s.Init())

	var z Zoom
	var err error
	for i := 0; i < 10; i++ {
		z, err = s.ZoomIn()
		require.NoError(t, err)
	}
	assert.Equal(t, 1.5, z.Factor)

	for i := 0; i < 20; i++ {
		z, err = s.ZoomOut()
		require.NoError(t, err)
	}
	assert.Equal(t, 0.5, z.Factor)

	z, err = s.SetZoomFactor(1.2)
	require.NoError(t, err)
	assert.Equal(t, 1.2, z.Factor)

	z, err = s.SetZoomFactor(7)
	require.NoError(t, err)
	assert.Equal(t, 1.5, z.Factor)
}

func TestStateStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	b, err := OpenFile(path)
	require.NoError(t, err)

	s := NewStateStore(b)
	require.NoError(t, s.Init())
	_, err = s.ZoomIn()
	require.NoError(t, err)

	app := kiwi.NewApp(nil)
	app.Name = "kiwi"
	app.Config.App.WebsocketPort = 8765
	require.NoError(t, s.SetApp(AppStateFrom(app)))
	require.NoError(t, s.Close())

	_, err = s.Zoom()
	assert.ErrorIs(t, err, ErrNotInitialized)

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	s2 := NewStateStore(reopened)
	require.NoError(t, s2.Init())

	z, err := s2.Zoom()
	require.NoError(t, err)
	assert.Equal(t, 1.1, z.Factor)

	got, err := s2.App()
	require.NoError(t, err)
	assert.Equal(t, "kiwi", got.Name)
	assert.Equal(t, uint16(8765), got.Config.App.WebsocketPort)
}

func TestStateStore_RepairsBadZoom(t *testing.T) {
	b := newStateBackend(t)
	require.NoError(t, b.Set(stateKey, json.RawMessage(`{"zoom":{"factor":9,"min":0,"max":0}}`)))

	s := NewStateStore(b)
	require.NoError(t, s.Init())
	z, err := s.Zoom()
	require.NoError(t, err)
	assert.Equal(t, DefaultZoom(), z)
}
