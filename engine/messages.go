package engine

// MessageLog is a ring buffer of the most recent status messages.
type MessageLog struct {
	entries []string
	max     int
}

// NewMessageLog creates a log that keeps at most max messages.
func NewMessageLog(max int) *MessageLog {
	return &MessageLog{
		entries: make([]string, 0, max+1),
		max:     max,
	}
}

// Push adds a message, dropping the oldest when full. Empty messages are
// ignored.
func (l *MessageLog) Push(msg string) {
	if msg == "" {
		return
	}
	l.entries = append(l.entries, msg)
	if len(l.entries) > l.max {
		l.entries = l.entries[1:]
	}
}

// Lines returns the messages, oldest first.
func (l *MessageLog) Lines() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear empties the log.
func (l *MessageLog) Clear() {
	l.entries = l.entries[:0]
}
