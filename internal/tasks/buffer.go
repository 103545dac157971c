package tasks

import (
	"sync"
	"time"
)

const MaxLogsPerTask = 1000

// logBuffer is a bounded, concurrency-safe list of log entries.
type logBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
}

func (b *logBuffer) AppendLog(level, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, LogEntry{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
	})
	if len(b.entries) > MaxLogsPerTask {
		b.entries = b.entries[1:]
	}
}

func (b *logBuffer) reset() {
	b.mu.Lock()
	b.entries = make([]LogEntry, 0)
	b.mu.Unlock()
}

func (b *logBuffer) GetLogs() []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	cpy := make([]LogEntry, len(b.entries))
	copy(cpy, b.entries)
	return cpy
}
