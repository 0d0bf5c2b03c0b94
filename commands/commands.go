package commands

import (
	"fmt"
	"sync"

	"github.com/kiwi-automation/kiwi/backend"
	"github.com/kiwi-automation/kiwi/config"
	"github.com/kiwi-automation/kiwi/events"
	"github.com/kiwi-automation/kiwi/imaging"
	"github.com/kiwi-automation/kiwi/kiwi"
	"github.com/kiwi-automation/kiwi/store"
	"go.uber.org/multierr"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
	}
}

// respond turns a (data, err) pair into a response.
func respond(data interface{}, err error) *CommandResponse {
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(data)
}

// Env holds everything commands share: the backend wrappers, the event
// log, the stores and the frame cache.
type Env struct {
	Config *config.Config
	Kiwi   *kiwi.Kiwi
	Events *events.Log
	Local  *store.LocalStore
	State  *store.StateStore
	Frames *imaging.Cache
}

// NewEnv wires an Env from cfg. The backend client is registered with
// registry so it is closed on shutdown; no connection is made yet.
func NewEnv(cfg *config.Config, registry *backend.Registry) (*Env, error) {
	log := events.NewLog(cfg.Events.Limit)

	client, err := backend.NewClient(cfg.Backend.URL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithNotificationHandler(log.HandleNotification),
	)
	if err != nil {
		return nil, err
	}
	if registry != nil {
		registry.Register(client)
	}

	frames, err := imaging.NewCache(cfg.Image.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create frame cache: %w", err)
	}

	stateBackend, err := store.Open(cfg.Store, store.NamespaceState)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	storeCfg := cfg.Store
	return &Env{
		Config: cfg,
		Kiwi:   kiwi.New(client),
		Events: log,
		Local: store.NewLocalStore(func() (store.Backend, error) {
			return store.Open(storeCfg, store.NamespaceLocal)
		}),
		State:  store.NewStateStore(stateBackend),
		Frames: frames,
	}, nil
}

// Close releases the stores.
func (e *Env) Close() error {
	return multierr.Combine(e.Local.Close(), e.State.Close())
}

var (
	envMu sync.RWMutex
	env   *Env
)

// SetEnv installs the Env used by every command. It is called once at
// startup by the CLI.
func SetEnv(e *Env) {
	envMu.Lock()
	defer envMu.Unlock()
	env = e
}

// GetEnv returns the installed Env.
func GetEnv() (*Env, error) {
	envMu.RLock()
	defer envMu.RUnlock()
	if env == nil {
		return nil, fmt.Errorf("kiwi is not configured")
	}
	return env, nil
}

// withKiwi runs fn against the installed backend wrappers.
func withKiwi(fn func(k *kiwi.Kiwi) (interface{}, error)) *CommandResponse {
	e, err := GetEnv()
	if err != nil {
		return NewErrorResponse(err)
	}
	return respond(fn(e.Kiwi))
}

// okData is returned by commands that have nothing else to report.
var okData = map[string]interface{}{"status": "ok"}

func done(err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return okData, nil
}

// stateStore returns the initialised state store.
func stateStore() (*store.StateStore, error) {
	e, err := GetEnv()
	if err != nil {
		return nil, err
	}
	if err := e.State.Init(); err != nil {
		return nil, err
	}
	return e.State, nil
}
