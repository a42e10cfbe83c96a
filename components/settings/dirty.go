package settings

import (
	"sort"
	"sync"
	"time"
)

// DirtyState captures unsaved-change tracking for one domain.
type DirtyState struct {
	IsDirty     bool       `json:"is_dirty"`
	LastSavedAt *time.Time `json:"last_saved_at,omitempty"`
}

// DirtyTracker records which domains hold unsaved edits.
// Clean moves to Dirty on any write; Dirty moves to Clean only through a
// successful save or a reset.
type DirtyTracker struct {
	mu     sync.RWMutex
	states map[string]DirtyState
}

// NewDirtyTracker creates a tracker with every domain clean.
func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{states: make(map[string]DirtyState)}
}

// MarkDirty flags the domain as holding unsaved edits.
func (t *DirtyTracker) MarkDirty(domain string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state := t.states[domain]
	state.IsDirty = true
	t.states[domain] = state
}

// Clear flags the domain clean without touching its last save time.
func (t *DirtyTracker) Clear(domain string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state := t.states[domain]
	state.IsDirty = false
	t.states[domain] = state
}

// MarkSaved clears the domain and records the save time.
func (t *DirtyTracker) MarkSaved(domain string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[domain] = DirtyState{LastSavedAt: &at}
}

// TouchSaved records a save time while leaving the dirty flag unchanged.
func (t *DirtyTracker) TouchSaved(domain string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state := t.states[domain]
	state.LastSavedAt = &at
	t.states[domain] = state
}

// IsDirty reports whether the domain holds unsaved edits.
func (t *DirtyTracker) IsDirty(domain string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.states[domain].IsDirty
}

// IsAnyDirty aggregates across every tracked domain.
func (t *DirtyTracker) IsAnyDirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, state := range t.states {
		if state.IsDirty {
			return true
		}
	}
	return false
}

// LastSavedAt returns the last successful save time, if any.
func (t *DirtyTracker) LastSavedAt(domain string) (time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	state := t.states[domain]
	if state.LastSavedAt == nil {
		return time.Time{}, false
	}
	return *state.LastSavedAt, true
}

// State returns a copy of the domain state.
func (t *DirtyTracker) State(domain string) DirtyState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyState(t.states[domain])
}

// States returns a copy of every tracked state.
func (t *DirtyTracker) States() map[string]DirtyState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]DirtyState, len(t.states))
	for domain, state := range t.states {
		out[domain] = copyState(state)
	}
	return out
}

// DirtyDomains lists dirty domains in sorted order.
func (t *DirtyTracker) DirtyDomains() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []string
	for domain, state := range t.states {
		if state.IsDirty {
			out = append(out, domain)
		}
	}
	sort.Strings(out)
	return out
}

func copyState(state DirtyState) DirtyState {
	if state.LastSavedAt != nil {
		at := *state.LastSavedAt
		state.LastSavedAt = &at
	}
	return state
}
