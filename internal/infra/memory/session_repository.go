// Package memory provides in-process storage implementations.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/scandelta/api/pkg/domain/session"
	"github.com/scandelta/api/pkg/domain/shared"
)

// SessionRepository is a mutex-guarded in-memory session store.
// The default store when Redis is not configured.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	ttl      time.Duration
}

var _ session.Repository = (*SessionRepository)(nil)

// NewSessionRepository creates an in-memory session repository.
// A non-positive ttl disables expiry.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*session.Session),
		ttl:      ttl,
	}
}

// Save stores a session, creating or replacing it. The stored copy is
// detached from the caller's pointer, matching the value semantics of the
// Redis-backed store.
func (r *SessionRepository) Save(_ context.Context, s *session.Session) error {
	clone := s.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID.String()] = clone
	return nil
}

// Get retrieves a session by ID. Each call returns an independent copy, so
// concurrent callers never mutate a shared session.
func (r *SessionRepository) Get(_ context.Context, id shared.ID) (*session.Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id.String()]
	r.mu.RUnlock()

	if !ok {
		return nil, shared.ErrNotFound
	}

	if r.ttl > 0 && time.Since(s.UpdatedAt) > r.ttl {
		r.mu.Lock()
		delete(r.sessions, id.String())
		r.mu.Unlock()
		return nil, shared.ErrNotFound
	}

	return s.Clone(), nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(_ context.Context, id shared.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id.String())
	return nil
}

// Len returns the number of stored sessions.
func (r *SessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
