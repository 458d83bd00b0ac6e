package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/myflix/movieapi/internal/logging"
	"github.com/myflix/movieapi/internal/store"
	"github.com/myflix/movieapi/types"
)

// TokenVerifier turns an Authorization header into the live user it names.
type TokenVerifier struct {
	tokens *TokenService
	store  CredentialStore
	logger logging.Logger
}

func NewTokenVerifier(tokens *TokenService, credentials CredentialStore, logger logging.Logger) *TokenVerifier {
	return &TokenVerifier{
		tokens: tokens,
		store:  credentials,
		logger: logger.With("component", "token_verifier"),
	}
}

// VerifyRequest verifies the bearer token carried by r.
func (v *TokenVerifier) VerifyRequest(r *http.Request) (types.User, error) {
	return v.Verify(r.Context(), r.Header.Get("Authorization"))
}

// Verify checks the bearer token in authorization and re-fetches the user it
// was issued to, so deleted accounts stop authenticating immediately.
func (v *TokenVerifier) Verify(ctx context.Context, authorization string) (types.User, error) {
	tokenString, ok := BearerToken(authorization)
	if !ok {
		return types.User{}, fail(ErrUnauthenticated, ReasonMissingToken)
	}

	claims, err := v.tokens.Parse(tokenString)
	if err != nil {
		v.logger.Debug(ctx, "token rejected", "error", err)
		return types.User{}, fail(ErrUnauthenticated, ReasonInvalidToken)
	}

	user, err := v.store.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			v.logger.Warn(ctx, "token for missing user", "user_id", claims.UserID, "subject", claims.Subject)
			return types.User{}, fail(ErrUnauthenticated, ReasonUserGone)
		}
		v.logger.Error(ctx, "user re-fetch failed", "user_id", claims.UserID, "error", err)
		return types.User{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return user, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(authorization string) (string, bool) {
	authorization = strings.TrimSpace(authorization)
	if authorization == "" {
		return "", false
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
