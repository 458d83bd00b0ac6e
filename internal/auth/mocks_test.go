package auth

import (
	"context"
	"errors"

	"github.com/myflix/movieapi/internal/store"
	"github.com/myflix/movieapi/types"
)

type mockCredentialStore struct {
	getByUsernameFunc func(ctx context.Context, username string) (types.User, error)
	getByIDFunc       func(ctx context.Context, id string) (types.User, error)
}

func (m *mockCredentialStore) GetByUsername(ctx context.Context, username string) (types.User, error) {
	if m.getByUsernameFunc != nil {
		return m.getByUsernameFunc(ctx, username)
	}
	return types.User{}, errors.New("not implemented")
}

func (m *mockCredentialStore) GetByID(ctx context.Context, id string) (types.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return types.User{}, errors.New("not implemented")
}

// usersStore serves lookups from a fixed set of users keyed by username.
func usersStore(users ...types.User) *mockCredentialStore {
	byName := make(map[string]types.User, len(users))
	byID := make(map[string]types.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
		byID[u.ID] = u
	}
	return &mockCredentialStore{
		getByUsernameFunc: func(_ context.Context, username string) (types.User, error) {
			if u, ok := byName[username]; ok {
				return u, nil
			}
			return types.User{}, store.ErrNotFound
		},
		getByIDFunc: func(_ context.Context, id string) (types.User, error) {
			if u, ok := byID[id]; ok {
				return u, nil
			}
			return types.User{}, store.ErrNotFound
		},
	}
}
