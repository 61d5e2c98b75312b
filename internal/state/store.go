package state

import "sync"

// Store holds the current snapshot behind a mutex so the HTTP layer and the
// scheduler can share it. All mutation goes through Dispatch/Apply.
type Store struct {
	mu      sync.RWMutex
	current AppState
}

// NewStore creates a Store seeded with the given snapshot.
func NewStore(initial AppState) *Store {
	return &Store{current: initial}
}

// Snapshot returns the current state. The snapshot is safe to read without
// further locking; Apply never mutates a published snapshot.
func (st *Store) Snapshot() AppState {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Dispatch applies the action and returns the resulting snapshot.
func (st *Store) Dispatch(a Action) AppState {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.current = Apply(st.current, a)
	return st.current
}
