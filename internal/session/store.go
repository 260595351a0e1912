package session

import (
	"context"
	"time"
)

// Session represents an authenticated user session.
// It intentionally stores only the identity record pointer, not the record.
type Session struct {
	SessionID string    // unique session identifier
	UserID    string    // references user.Record.ID
	CreatedAt time.Time // when the session was bound
	ExpiresAt time.Time // absolute expiry time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store defines how sessions are stored and retrieved.
// Get returns (nil, nil) when the session does not exist.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
