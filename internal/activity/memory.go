package activity

import (
	"context"
	"sync"
	"time"
)

// MemoryLog is the in-process [Log] used when no Redis client is
// configured. Entries live in a per-user slice that every Record trims
// by age and then caps at maxEntries, keeping the newest.
type MemoryLog struct {
	mu         sync.Mutex
	entries    map[string][]Entry
	retention  time.Duration
	maxEntries int
}

// NewMemoryLog creates a [MemoryLog]. Zero retention and maxEntries
// fall back to one hour and 256 entries.
func NewMemoryLog(retention time.Duration, maxEntries int) *MemoryLog {
	if retention <= 0 {
		retention = time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &MemoryLog{
		entries:    make(map[string][]Entry),
		retention:  retention,
		maxEntries: maxEntries,
	}
}

// Record appends entry to the user's log, evicting expired and
// overflowing entries.
func (l *MemoryLog) Record(_ context.Context, userID string, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	list := append(l.entries[userID], entry)
	cutoff := time.Now().Add(-l.retention)
	kept := list[:0]
	for _, e := range list {
		if e.Timestamp.After(cutoff) {
			kept = append(kept, e)
		}
	}
	if len(kept) > l.maxEntries {
		kept = kept[len(kept)-l.maxEntries:]
	}
	l.entries[userID] = kept
	return nil
}

// Recent returns entries newer than now-window, newest first.
func (l *MemoryLog) Recent(_ context.Context, userID string, window time.Duration) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-window)
	list := l.entries[userID]
	out := make([]Entry, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		if window > 0 && !list[i].Timestamp.After(cutoff) {
			continue
		}
		out = append(out, list[i])
	}
	return out, nil
}
