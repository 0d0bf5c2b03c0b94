// Package notify delivers user-visible messages. Errors raised by backend
// calls are reported here before being returned to the caller.
package notify

import (
	"sync"
	"time"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// DefaultDuration is how long a non-error message stays visible.
const DefaultDuration = 3 * time.Second

// Message is one notification. A zero Duration means the message stays
// until dismissed. Count is the number of identical messages grouped into
// this one.
type Message struct {
	Level    Level         `json:"type"`
	Text     string        `json:"message"`
	Duration time.Duration `json:"duration"`
	Count    int           `json:"count"`
}

type Notifier interface {
	Notify(msg Message)
}

var (
	mu              sync.RWMutex
	defaultNotifier Notifier = NewLogNotifier(nil)
)

// SetDefault replaces the notifier used by the package-level helpers and
// returns the previous one.
func SetDefault(n Notifier) Notifier {
	mu.Lock()
	defer mu.Unlock()
	prev := defaultNotifier
	defaultNotifier = n
	return prev
}

func Default() Notifier {
	mu.RLock()
	defer mu.RUnlock()
	return defaultNotifier
}

func Info(text string) {
	Default().Notify(Message{Level: LevelInfo, Text: text, Duration: DefaultDuration, Count: 1})
}

func Warn(text string) {
	Default().Notify(Message{Level: LevelWarning, Text: text, Duration: DefaultDuration, Count: 1})
}

func Success(text string) {
	Default().Notify(Message{Level: LevelSuccess, Text: text, Duration: DefaultDuration, Count: 1})
}

// Error shows text until dismissed unless a positive duration is given.
func Error(text string, duration ...time.Duration) {
	var d time.Duration
	if len(duration) > 0 && duration[0] > 0 {
		d = duration[0]
	}
	Default().Notify(Message{Level: LevelError, Text: text, Duration: d, Count: 1})
}

// ErrorObject reports err's message. A nil error is ignored.
func ErrorObject(err error, duration ...time.Duration) {
	if err == nil {
		return
	}
	Error(err.Error(), duration...)
}

// Multi fans a message out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(msg Message) {
	for _, n := range m {
		n.Notify(msg)
	}
}
