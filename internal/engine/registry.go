package engine

import (
	"sort"
	"sync"

	"campusfaq/internal/domain"
)

// Registry is the process-wide map from session id to Session. It is
// constructed at startup and passed to whoever needs it, not an ambient
// singleton. Nothing is persisted: a restart loses every session except
// whatever the caller re-ingests.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Get returns the session for id, if any.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// getOrCreate returns the existing session for id or creates one for vectors
// of the given dimension.
func (r *Registry) getOrCreate(id string, dimension int) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	s, err := newSession(id, dimension)
	if err != nil {
		return nil, err
	}
	r.sessions[id] = s
	return s, nil
}

// Delete removes the session for id. It reports whether a session existed;
// deleting an absent id is not an error.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// List returns session summaries ordered by creation time, then id.
func (r *Registry) List() []domain.SessionInfo {
	r.mu.RLock()
	infos := make([]domain.SessionInfo, 0, len(r.sessions))
	for _, s := range r.sessions {
		infos = append(infos, s.Info())
	}
	r.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Clear drops every session. Used at shutdown.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[string]*Session)
}
