// Package storage persists sessions between presentation cycles.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/state"
)

const DefaultSessionTTL = time.Hour

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	// Ping tests the backend connection
	Ping(ctx context.Context) error
}

// SessionStore defines session persistence
type SessionStore interface {
	HealthChecker

	// SaveSession stores s under s.ID, replacing any previous version
	SaveSession(ctx context.Context, s *state.Session) error

	// LoadSession retrieves a session by ID.
	// Returns nil if the session doesn't exist or has expired
	LoadSession(ctx context.Context, id uuid.UUID) (*state.Session, error)

	// DeleteSession removes a session by ID
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// Close releases the backend connection
	Close() error
}
