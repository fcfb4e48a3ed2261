package session

import (
	"fmt"
	"sync"
)

// Transport is a player's outbound connection. Send must not block.
type Transport interface {
	Send(v any) error
}

// Registry owns the connection table and the set of active sessions.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	conns    map[string]Transport
	sessions map[string]*Session
	// Participant player id -> session id.
	players map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		conns:    make(map[string]Transport),
		sessions: make(map[string]*Session),
		players:  make(map[string]string),
	}
}

// Register binds t to playerID, silently replacing a previous binding.
func (r *Registry) Register(playerID string, t Transport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[playerID] = t
}

// Unregister drops the binding for playerID if it is still t. It reports
// whether a binding was removed; a stale transport leaves a newer one alone.
func (r *Registry) Unregister(playerID string, t Transport) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.conns[playerID]
	if !ok || cur != t {
		return false
	}
	delete(r.conns, playerID)
	return true
}

func (r *Registry) Transport(playerID string) (Transport, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.conns[playerID]
	return t, ok
}

// Connected reports whether playerID has a live binding.
func (r *Registry) Connected(playerID string) bool {
	_, ok := r.Transport(playerID)
	return ok
}

// addSession stores s. It fails if either player is already in a session.
func (r *Registry) addSession(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; ok {
		return fmt.Errorf("session %s: %w", s.ID, ErrSessionExists)
	}
	for _, p := range s.Players {
		if other, ok := r.players[p]; ok {
			return fmt.Errorf("player %s already in session %s: %w", p, other, ErrPlayerInSession)
		}
	}
	r.sessions[s.ID] = s
	for _, p := range s.Players {
		r.players[p] = s.ID
	}
	return nil
}

// Session looks up an active session by id.
func (r *Registry) Session(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// SessionOf returns the active session playerID participates in.
func (r *Registry) SessionOf(playerID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.players[playerID]
	if !ok {
		return nil, false
	}
	s, ok := r.sessions[id]
	return s, ok
}

// RemoveSession deletes the session and signals its game loop to stop.
// It reports whether the session was present.
func (r *Registry) RemoveSession(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
		for _, p := range s.Players {
			if r.players[p] == id {
				delete(r.players, p)
			}
		}
	}
	r.mu.Unlock()

	if ok {
		s.Stop()
	}
	return ok
}

func (r *Registry) Sessions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StopAll removes and stops every session. Used on shutdown.
func (r *Registry) StopAll() {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		r.RemoveSession(id)
	}
}
