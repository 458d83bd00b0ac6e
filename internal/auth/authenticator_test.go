package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/myflix/movieapi/internal/logging"
	"github.com/myflix/movieapi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T, credentials CredentialStore) *Authenticator {
	t.Helper()
	return NewAuthenticator(credentials, NewPasswordHasher(), logging.Discard())
}

func aliceWithPassword(t *testing.T, password string) types.User {
	t.Helper()
	digest, err := NewPasswordHasher().Hash(password)
	require.NoError(t, err)
	return types.User{ID: "u-1", Username: "alice", Email: "alice@example.com", PasswordHash: digest}
}

func TestAuthenticator_Success(t *testing.T) {
	alice := aliceWithPassword(t, "secret123")
	a := newTestAuthenticator(t, usersStore(alice))

	user, err := a.Authenticate(context.Background(), "alice", "secret123")

	require.NoError(t, err)
	assert.Equal(t, alice, user)
}

func TestAuthenticator_Failures(t *testing.T) {
	alice := aliceWithPassword(t, "secret123")
	a := newTestAuthenticator(t, usersStore(alice))

	tests := []struct {
		name       string
		username   string
		password   string
		wantReason string
	}{
		{name: "unknown user", username: "bob", password: "secret123", wantReason: ReasonNoSuchUser},
		{name: "wrong password", username: "alice", password: "secret124", wantReason: ReasonBadPassword},
		{name: "empty password", username: "alice", password: "", wantReason: ReasonBadPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Authenticate(context.Background(), tt.username, tt.password)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAuthenticationFailed)
			assert.NotErrorIs(t, err, ErrStoreUnavailable)
			assert.Equal(t, tt.wantReason, ReasonOf(err))
		})
	}
}

func TestAuthenticator_StoreFailure(t *testing.T) {
	boom := errors.New("connection refused")
	a := newTestAuthenticator(t, &mockCredentialStore{
		getByUsernameFunc: func(context.Context, string) (types.User, error) {
			return types.User{}, boom
		},
	})

	_, err := a.Authenticate(context.Background(), "alice", "secret123")

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthenticator_FailuresShareMessage(t *testing.T) {
	alice := aliceWithPassword(t, "secret123")
	a := newTestAuthenticator(t, usersStore(alice))

	_, unknownErr := a.Authenticate(context.Background(), "mallory", "secret123")
	_, badPassErr := a.Authenticate(context.Background(), "alice", "nope")

	var unknown, badPass *Failure
	require.ErrorAs(t, unknownErr, &unknown)
	require.ErrorAs(t, badPassErr, &badPass)
	assert.Equal(t, unknown.Err.Error(), badPass.Err.Error())
}
