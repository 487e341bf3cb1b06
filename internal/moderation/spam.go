package moderation

import (
	"sync"
	"time"
)

// SpamEntry counts consecutive messages sent closer together than the interval
type SpamEntry struct {
	Count    int
	LastSeen time.Time
}

// SpamTracker keeps one entry per user
type SpamTracker struct {
	mu       sync.Mutex
	interval time.Duration
	entries  map[string]*SpamEntry
}

// NewSpamTracker creates a tracker with the given interval
func NewSpamTracker(interval time.Duration) *SpamTracker {
	return &SpamTracker{
		interval: interval,
		entries:  make(map[string]*SpamEntry),
	}
}

// Hit records a message at now and returns the updated count. The count
// grows while messages arrive within the interval and restarts at 1 otherwise.
func (t *SpamTracker) Hit(userID string, now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[userID]
	if !ok {
		entry = &SpamEntry{}
		t.entries[userID] = entry
	}
	if !entry.LastSeen.IsZero() && now.Sub(entry.LastSeen) < t.interval {
		entry.Count++
	} else {
		entry.Count = 1
	}
	entry.LastSeen = now
	return entry.Count
}

// Sweep drops entries idle for longer than the interval, since their next
// hit would restart at 1 anyway. It returns how many were removed.
func (t *SpamTracker) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for userID, entry := range t.entries {
		if now.Sub(entry.LastSeen) >= t.interval {
			delete(t.entries, userID)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked users
func (t *SpamTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
