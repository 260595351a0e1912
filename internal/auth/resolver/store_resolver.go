package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"social-login/internal/auth"
	"social-login/internal/logger"
	"social-login/internal/user"
)

var ErrInvalidIdentity = errors.New("resolver: identity missing provider or account id")

// StoreResolver finds or creates identity records in a user.Store.
type StoreResolver struct {
	store user.Store
	now   func() time.Time
}

func NewStoreResolver(store user.Store) *StoreResolver {
	return &StoreResolver{
		store: store,
		now:   time.Now,
	}
}

func (r *StoreResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (*user.Record, error) {

	if identity == nil || identity.Provider == "" || identity.ProviderUserID == "" {
		return nil, ErrInvalidIdentity
	}

	// 1. Existing record for (provider, account id)
	rec, err := r.store.FindByOAuthID(ctx, identity.Provider, identity.ProviderUserID)
	if err == nil {
		return rec, nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("resolve %s identity: %w", identity.Provider, err)
	}

	// 2. First login: create
	rec, err = r.store.Create(ctx, user.Record{
		Provider: identity.Provider,
		OAuthID:  identity.ProviderUserID,
		Name:     identity.DisplayName,
		Created:  r.now().UTC(),
	})

	if err == nil {
		logger.Info("identity record created", map[string]any{
			"provider": identity.Provider,
			"user_id":  rec.ID,
		})
		return rec, nil
	}

	if !errors.Is(err, user.ErrConflict) {
		return nil, fmt.Errorf("create %s identity: %w", identity.Provider, err)
	}

	// 3. Lost a race with a concurrent first login; the winner's record stands.
	rec, err = r.store.FindByOAuthID(ctx, identity.Provider, identity.ProviderUserID)
	if err != nil {
		return nil, fmt.Errorf("refetch %s identity after conflict: %w", identity.Provider, err)
	}

	return rec, nil
}
