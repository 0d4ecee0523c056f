package feed

import "sync"

// ErrorLog accumulates human-readable error messages across one session.
// Entries are append-only; every recorded error is visible through Last
// and All.
type ErrorLog struct {
	mu      sync.Mutex
	entries []string
}

func NewErrorLog() *ErrorLog {
	return &ErrorLog{}
}

func (l *ErrorLog) Add(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, msg)
}

// Last returns the most recent entry, or "" when nothing was recorded.
func (l *ErrorLog) Last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1]
}

func (l *ErrorLog) All() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *ErrorLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
