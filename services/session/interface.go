// Package session persists per-user dialogue state with a sliding idle expiry
// and optimistic concurrency on the session version.
package session

import (
	"context"
	"errors"

	"calbot/models"
)

const keyPrefix = "calbot:session:"

var (
	// ErrNotFound is returned for missing and expired sessions.
	ErrNotFound = errors.New("session not found")
	// ErrConflict means the stored version moved since the session was loaded.
	ErrConflict = errors.New("session modified concurrently")
)

// Store is the session persistence boundary used by the dialogue.
type Store interface {
	Get(ctx context.Context, userID string) (*models.Session, error)
	// Save writes s if the stored version still equals s.Version (zero for a
	// session that does not exist yet), then bumps s.Version and refreshes
	// the expiry.
	Save(ctx context.Context, userID string, s *models.Session) error
	// Delete is idempotent.
	Delete(ctx context.Context, userID string) error
}

// Key namespaces a user id.
func Key(userID string) string {
	return keyPrefix + userID
}
