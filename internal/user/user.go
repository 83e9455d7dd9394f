package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAlreadyExists = errors.New("user already exists")

// User is a local account. Accounts are provisioned out of band; the login
// flow only reads them.
type User struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}

// Finder looks up a single account by email. A missing account is
// reported as (nil, nil).
type Finder interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
}
