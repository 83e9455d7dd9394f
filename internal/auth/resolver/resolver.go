package resolver

import (
	"context"

	"portal/internal/auth"
	"portal/internal/user"
)

// Result is the outcome of mapping an external identity to a local
// account. Found is false when no account matches; that is not an error.
type Result struct {
	User  user.User
	Found bool
}

// Resolver determines which internal user an external identity belongs to.
// It is the ONLY place where identity-to-user mapping logic lives.
type Resolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) (Result, error)
}
