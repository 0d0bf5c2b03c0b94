package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/kiwi-automation/kiwi/kiwi"
)

const stateKey = "state"

// ZoomStep is how much ZoomIn and ZoomOut change the factor.
const ZoomStep = 0.1

var ErrNotInitialized = errors.New("StateStore not initialized")

// Zoom is the UI scale factor and its bounds.
type Zoom struct {
	Factor float64 `json:"factor"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func DefaultZoom() Zoom {
	return Zoom{Factor: 1, Min: 0.5, Max: 1.5}
}

// WithFactor returns z with its factor set to f clamped to [Min, Max],
// rounded to two decimals.
func (z Zoom) WithFactor(f float64) Zoom {
	f = math.Round(f*100) / 100
	z.Factor = math.Min(math.Max(f, z.Min), z.Max)
	return z
}

// AppState is the persisted copy of the backend application info.
type AppState struct {
	Name                  string         `json:"name"`
	Version               string         `json:"version"`
	Config                kiwi.AppConfig `json:"config"`
	RelativeImageDataPath string         `json:"relativeImageDataPath"`
}

// AppStateFrom copies the fields loaded by App.Init.
func AppStateFrom(app *kiwi.App) AppState {
	return AppState{
		Name:                  app.Name,
		Version:               app.Version,
		Config:                app.Config,
		RelativeImageDataPath: app.RelativeImageDataPath,
	}
}

type state struct {
	App  AppState `json:"app"`
	Zoom Zoom     `json:"zoom"`
}

// StateStore holds UI state that survives restarts. Every accessor fails
// with ErrNotInitialized until Init succeeds, and every change is written
// through to the backend.
type StateStore struct {
	mu      sync.Mutex
	backend Backend
	data    *state
}

func NewStateStore(backend Backend) *StateStore {
	return &StateStore{backend: backend}
}

// Init loads the persisted state or starts from defaults. Calling it again
// is a no-op.
func (s *StateStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data != nil {
		return nil
	}

	data := &state{Zoom: DefaultZoom()}
	raw, ok, err := s.backend.Get(stateKey)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	if ok {
		if err := json.Unmarshal(raw, data); err != nil {
			return fmt.Errorf("failed to decode state: %w", err)
		}
		if data.Zoom.Min <= 0 || data.Zoom.Max < data.Zoom.Min {
			data.Zoom = DefaultZoom()
		}
		data.Zoom = data.Zoom.WithFactor(data.Zoom.Factor)
	}

	s.data = data
	return nil
}

func (s *StateStore) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data != nil
}

func (s *StateStore) App() (AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return AppState{}, ErrNotInitialized
	}
	return s.data.App, nil
}

func (s *StateStore) SetApp(app AppState) error {
	return s.update(func(st *state) {
		st.App = app
	})
}

func (s *StateStore) Zoom() (Zoom, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return Zoom{}, ErrNotInitialized
	}
	return s.data.Zoom, nil
}

func (s *StateStore) ZoomIn() (Zoom, error) {
	return s.zoomBy(ZoomStep)
}

func (s *StateStore) ZoomOut() (Zoom, error) {
	return s.zoomBy(-ZoomStep)
}

func (s *StateStore) SetZoomFactor(f float64) (Zoom, error) {
	var z Zoom
	err := s.update(func(st *state) {
		st.Zoom = st.Zoom.WithFactor(f)
		z = st.Zoom
	})
	return z, err
}

func (s *StateStore) zoomBy(delta float64) (Zoom, error) {
	var z Zoom
	err := s.update(func(st *state) {
		st.Zoom = st.Zoom.WithFactor(st.Zoom.Factor + delta)
		z = st.Zoom
	})
	return z, err
}

func (s *StateStore) update(fn func(*state)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return ErrNotInitialized
	}

	next := *s.data
	fn(&next)

	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := s.backend.Set(stateKey, raw); err != nil {
		return err
	}
	*s.data = next
	return nil
}

// Close releases the backend. The store must be initialised again before
// further use.
func (s *StateStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return s.backend.Close()
}
