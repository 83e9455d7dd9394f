package resolver

import (
	"context"
	"errors"
	"fmt"

	"portal/internal/auth"
	"portal/internal/user"
)

// EmailResolver maps an identity to an existing account by email.
// It never creates or links accounts: unknown emails resolve to
// Found == false.
type EmailResolver struct {
	users user.Finder
}

func NewEmailResolver(users user.Finder) *EmailResolver {
	return &EmailResolver{users: users}
}

func (r *EmailResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (Result, error) {

	if identity == nil {
		return Result{}, errors.New("identity is nil")
	}

	u, err := r.users.FindByEmail(ctx, identity.LookupEmail())
	if err != nil {
		return Result{}, fmt.Errorf("resolve %s identity: %w", identity.Provider, err)
	}

	if u == nil {
		return Result{}, nil
	}

	return Result{User: *u, Found: true}, nil
}
