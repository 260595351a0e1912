package resolver

import (
	"context"

	"social-login/internal/auth"
	"social-login/internal/user"
)

// Resolver determines which local record an external identity belongs to.
// It is the ONLY place where identity-to-record mapping logic lives, and
// it behaves the same for every provider.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (*user.Record, error)
}
