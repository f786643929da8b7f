package realtime

import (
	"sort"
	"sync"
)

// Tracker maintains the set of currently-online user ids for the presence
// channel. A sync event replaces the whole set with an authoritative
// snapshot; join and leave events apply incremental updates. Joins are
// idempotent, so duplicate join events never produce duplicate entries.
type Tracker struct {
	mu     sync.RWMutex
	online map[string]struct{}
}

// NewTracker returns an empty presence tracker
func NewTracker() *Tracker {
	return &Tracker{online: make(map[string]struct{})}
}

// ApplySync replaces the tracked set with the given snapshot
func (t *Tracker) ApplySync(keys []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.online = make(map[string]struct{}, len(keys))
	for _, k := range keys {
		t.online[k] = struct{}{}
	}
}

// ApplyJoin adds a key to the tracked set
func (t *Tracker) ApplyJoin(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.online[key] = struct{}{}
}

// ApplyLeave removes a key from the tracked set
func (t *Tracker) ApplyLeave(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.online, key)
}

// IsOnline reports whether the given key is currently tracked
func (t *Tracker) IsOnline(key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.online[key]
	return ok
}

// Online returns the tracked set as a sorted slice
func (t *Tracker) Online() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]string, 0, len(t.online))
	for k := range t.online {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clear empties the tracked set
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.online = make(map[string]struct{})
}
