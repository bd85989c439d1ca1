package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scandelta/api/pkg/domain/session"
	"github.com/scandelta/api/pkg/domain/shared"
)

const sessionKeyPrefix = "session"

// SessionRepository stores sessions as JSON values with a TTL.
// Only the source datasets are persisted; comparison rows are derived state
// and recomputed from the stored datasets on every snapshot request.
type SessionRepository struct {
	client *Client
	ttl    time.Duration
}

var _ session.Repository = (*SessionRepository)(nil)

// NewSessionRepository creates a Redis-backed session repository.
func NewSessionRepository(client *Client, ttl time.Duration) (*SessionRepository, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session TTL must be positive")
	}

	return &SessionRepository{
		client: client,
		ttl:    ttl,
	}, nil
}

func sessionKey(id shared.ID) string {
	return fmt.Sprintf("%s:%s", sessionKeyPrefix, id.String())
}

// Save stores a session, creating or replacing it, and refreshes its TTL.
func (r *SessionRepository) Save(ctx context.Context, s *session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := r.client.client.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID.
func (r *SessionRepository) Get(ctx context.Context, id shared.ID) (*session.Session, error) {
	data, err := r.client.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &s, nil
}

// Delete removes a session.
func (r *SessionRepository) Delete(ctx context.Context, id shared.ID) error {
	if err := r.client.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
