package auth

import (
	"context"

	"github.com/myflix/movieapi/types"
)

// CredentialStore is the read side of the user repository that the core needs.
// Implementations return store.ErrNotFound for missing users.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetByID(ctx context.Context, id string) (types.User, error)
}
