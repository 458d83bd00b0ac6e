package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/myflix/movieapi/internal/logging"
	"github.com/myflix/movieapi/internal/store"
	"github.com/myflix/movieapi/types"
)

// Authenticator checks username/password pairs against the credential store.
type Authenticator struct {
	store  CredentialStore
	hasher *PasswordHasher
	logger logging.Logger
}

func NewAuthenticator(credentials CredentialStore, hasher *PasswordHasher, logger logging.Logger) *Authenticator {
	return &Authenticator{
		store:  credentials,
		hasher: hasher,
		logger: logger.With("component", "authenticator"),
	}
}

// Authenticate resolves the user owning username when password matches.
// Unknown users and wrong passwords both yield ErrAuthenticationFailed.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (types.User, error) {
	user, err := a.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.logger.Warn(ctx, "login rejected", "username", username, "reason", ReasonNoSuchUser)
			return types.User{}, fail(ErrAuthenticationFailed, ReasonNoSuchUser)
		}
		a.logger.Error(ctx, "credential lookup failed", "error", err)
		return types.User{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		a.logger.Warn(ctx, "login rejected", "username", username, "reason", ReasonBadPassword)
		return types.User{}, fail(ErrAuthenticationFailed, ReasonBadPassword)
	}

	return user, nil
}
