package user

import "context"

// Store persists identity records. Implementations must enforce
// uniqueness of (Provider, OAuthID) and return ErrConflict on violation.
type Store interface {
	FindByOAuthID(ctx context.Context, provider, oauthID string) (*Record, error)
	FindByID(ctx context.Context, id string) (*Record, error)

	// Create assigns the record ID and persists it before returning.
	Create(ctx context.Context, r Record) (*Record, error)
}
