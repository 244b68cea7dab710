package user

import (
	"context"

	"github.com/avelis/taskhub/internal/auth"
)

// AuthAdapter adapts user.Store to the auth.IdentityLookup interface.
type AuthAdapter struct {
	store *Store
}

// NewAuthAdapter creates a new AuthAdapter wrapping the given user store.
func NewAuthAdapter(store *Store) *AuthAdapter {
	return &AuthAdapter{store: store}
}

// FindIdentity resolves a token subject id to the matching account.
func (a *AuthAdapter) FindIdentity(ctx context.Context, id string) (*auth.Identity, error) {
	u, err := a.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &auth.Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}, nil
}
