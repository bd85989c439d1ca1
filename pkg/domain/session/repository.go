package session

import (
	"context"

	"github.com/scandelta/api/pkg/domain/shared"
)

// Repository defines session persistence.
//
// Implementations must return shared.ErrNotFound for unknown session IDs.
type Repository interface {
	// Save stores a session, creating or replacing it.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id shared.ID) (*Session, error)

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id shared.ID) error
}
