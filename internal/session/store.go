package session

import "sync"

// Store is the in-memory session registry. The store lock guards lookup and
// insert only; transcript mutation happens under the session's own lock, so
// a slow completion call for one session never stalls the registry.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for id, creating it on first reference.
// When the session already exists and both scenario and level are non-empty,
// the stored attributes and system instruction are replaced; empty values
// leave the existing session untouched.
func (st *Store) GetOrCreate(id, scenario, level string) *Session {
	st.mu.Lock()
	s, ok := st.sessions[id]
	if !ok {
		s = New(id, scenario, level)
		st.sessions[id] = s
		st.mu.Unlock()
		return s
	}
	st.mu.Unlock()

	if scenario != "" && level != "" {
		s.Lock()
		s.UpdateScenario(scenario, level)
		s.Unlock()
	}
	return s
}

// Delete removes the session for id. Deleting an absent id is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
