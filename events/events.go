// Package events keeps the recent output and progress of tasks running in
// the backend, fed by backend notifications.
package events

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/kiwi-automation/kiwi/types"
	"github.com/kiwi-automation/kiwi/utils"
)

// Notification methods sent by the backend.
const (
	MethodEmit     = "emit"
	MethodProgress = "progress"
)

// DefaultLimit is how many emitted lines are kept per event.
const DefaultLimit = 200

type Kind string

const (
	KindEmit     Kind = "emit"
	KindProgress Kind = "progress"
	KindClear    Kind = "clear"
)

// Event is delivered to subscribers. Data is set for KindEmit and
// Progress for KindProgress.
type Event struct {
	Kind     Kind            `json:"kind"`
	Name     string          `json:"name"`
	Data     *types.EmitData `json:"data,omitempty"`
	Progress *types.Progress `json:"progress,omitempty"`
}

type notification struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Log is safe for concurrent use.
type Log struct {
	mu       sync.Mutex
	limit    int
	stacks   map[string]*types.Stack[types.EmitData]
	progress map[string]types.Progress
	subs     map[int]func(Event)
	nextSub  int
}

// NewLog returns a Log keeping at most limit lines per event name.
func NewLog(limit int) *Log {
	return &Log{
		limit:    limit,
		stacks:   make(map[string]*types.Stack[types.EmitData]),
		progress: make(map[string]types.Progress),
		subs:     make(map[int]func(Event)),
	}
}

func (l *Log) Append(name string, data types.EmitData) {
	l.mu.Lock()
	s, ok := l.stacks[name]
	if !ok {
		s = types.NewStack[types.EmitData](l.limit)
		l.stacks[name] = s
	}
	s.Push(data)
	l.mu.Unlock()

	l.publish(Event{Kind: KindEmit, Name: name, Data: &data})
}

// Recent returns the retained lines of name, oldest first.
func (l *Log) Recent(name string) []types.EmitData {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.stacks[name]
	if !ok {
		return []types.EmitData{}
	}
	return s.Items()
}

func (l *Log) Clear(name string) {
	l.mu.Lock()
	if s, ok := l.stacks[name]; ok {
		s.Clear()
	}
	delete(l.progress, name)
	l.mu.Unlock()

	l.publish(Event{Kind: KindClear, Name: name})
}

// Names lists every event name seen so far, sorted.
func (l *Log) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[string]struct{}, len(l.stacks)+len(l.progress))
	for name := range l.stacks {
		seen[name] = struct{}{}
	}
	for name := range l.progress {
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Log) SetProgress(name string, p types.Progress) {
	l.mu.Lock()
	l.progress[name] = p
	l.mu.Unlock()

	l.publish(Event{Kind: KindProgress, Name: name, Progress: &p})
}

func (l *Log) Progress(name string) (types.Progress, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.progress[name]
	return p, ok
}

// Subscribe registers fn for every later event and returns a function that
// removes it. fn is called without the log's lock held.
func (l *Log) Subscribe(fn func(Event)) (unsubscribe func()) {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

func (l *Log) publish(ev Event) {
	l.mu.Lock()
	subs := make([]func(Event), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// HandleNotification records a backend notification. It has the signature
// of backend.NotificationHandler; unknown methods are ignored.
func (l *Log) HandleNotification(method string, params json.RawMessage) {
	if err := l.handle(method, params); err != nil {
		utils.Warn("Dropping %s notification: %v", method, err)
	}
}

func (l *Log) handle(method string, params json.RawMessage) error {
	switch method {
	case MethodEmit, MethodProgress:
	default:
		utils.Verbose("Ignoring backend notification %s", method)
		return nil
	}

	var n notification
	if err := json.Unmarshal(params, &n); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	if n.Event == "" {
		return fmt.Errorf("missing event name")
	}

	if method == MethodEmit {
		var data types.EmitData
		if err := json.Unmarshal(n.Payload, &data); err != nil {
			return fmt.Errorf("invalid emit payload: %w", err)
		}
		l.Append(n.Event, data)
		return nil
	}

	var p types.Progress
	if err := json.Unmarshal(n.Payload, &p); err != nil {
		return fmt.Errorf("invalid progress payload: %w", err)
	}
	l.SetProgress(n.Event, p)
	return nil
}
