package notify

import "sync"

// Recorder keeps every message in memory. Identical consecutive messages
// are grouped by incrementing Count.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Notify(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.messages); n > 0 {
		last := &r.messages[n-1]
		if last.Level == msg.Level && last.Text == msg.Text {
			last.Count++
			return
		}
	}
	if msg.Count == 0 {
		msg.Count = 1
	}
	r.messages = append(r.messages, msg)
}

// Messages returns a copy of what was recorded.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.messages = nil
	r.mu.Unlock()
}
