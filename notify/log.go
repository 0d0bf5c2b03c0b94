package notify

import (
	"sync"
	"time"

	"github.com/kiwi-automation/kiwi/utils"
	"github.com/sirupsen/logrus"
)

// groupWindow is how long an identical message is folded into the previous
// one instead of being logged again.
const groupWindow = DefaultDuration

// LogNotifier writes messages to a logrus logger, folding repeats.
type LogNotifier struct {
	logger *logrus.Logger
	now    func() time.Time

	mu       sync.Mutex
	last     Message
	lastSeen time.Time
}

// NewLogNotifier logs to l, or to the process logger when l is nil.
func NewLogNotifier(l *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: l, now: time.Now}
}

func (n *LogNotifier) Notify(msg Message) {
	n.mu.Lock()
	now := n.now()
	if msg.Level == n.last.Level && msg.Text == n.last.Text && now.Sub(n.lastSeen) < groupWindow {
		n.last.Count++
		n.lastSeen = now
		n.mu.Unlock()
		return
	}
	n.last = msg
	n.lastSeen = now
	n.mu.Unlock()

	logger := n.logger
	if logger == nil {
		logger = utils.Logger()
	}

	entry := logger.WithField("notify", string(msg.Level))
	switch msg.Level {
	case LevelError:
		entry.Error(msg.Text)
	case LevelWarning:
		entry.Warn(msg.Text)
	default:
		entry.Info(msg.Text)
	}
}
