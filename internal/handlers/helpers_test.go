package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/myflix/movieapi/internal/auth"
	"github.com/myflix/movieapi/internal/logging"
	"github.com/myflix/movieapi/internal/services"
	"github.com/myflix/movieapi/internal/storage"
	"github.com/myflix/movieapi/internal/store"
	"github.com/myflix/movieapi/types"
)

const testSecret = "handlers-test-secret-0123456789abcdef"

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type testAPI struct {
	t      *testing.T
	router http.Handler
	clock  *testClock
	users  *store.MemoryUserRepository
	movies *store.MemoryMovieRepository
	tokens *auth.TokenService
}

type apiOptions struct {
	posters     services.PosterStorage
	credentials auth.CredentialStore
}

func newTestAPI(t *testing.T, opts apiOptions) *testAPI {
	t.Helper()

	clock := &testClock{now: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
	tokens, err := auth.NewTokenService(testSecret, auth.DefaultTokenTTL, auth.WithClock(clock.Now))
	require.NoError(t, err)

	log := logging.Discard()
	users := store.NewMemoryUserRepository()
	movies := store.NewMemoryMovieRepository()
	hasher := auth.NewPasswordHasher()

	var credentials auth.CredentialStore = users
	if opts.credentials != nil {
		credentials = opts.credentials
	}

	userService := services.NewUserService(users, movies, hasher, nil, log)
	movieService := services.NewMovieService(movies, opts.posters, nil, log)
	authenticator := auth.NewAuthenticator(credentials, hasher, log)
	guard := RequireAuth(auth.NewTokenVerifier(tokens, credentials, log), log)

	r := chi.NewRouter()
	r.Get("/", Welcome)
	r.Get("/healthz", Healthz)
	AuthRouter(r, authenticator, tokens, log)
	r.Route("/users", func(r chi.Router) {
		UserRouter(r, userService, guard, log)
	})
	r.Route("/movies", func(r chi.Router) {
		MovieRouter(r, movieService, guard, log)
	})

	return &testAPI{t: t, router: r, clock: clock, users: users, movies: movies, tokens: tokens}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API.
func (a *testAPI) register(username, password string) types.User {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/users", "", map[string]string{
		"username": username,
		"password": password,
		"email":    username + "@example.com",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var user types.User
	decode(a.t, rec, &user)
	return user
}

// login returns a token for username through the API.
func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/login", "", map[string]string{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	decode(a.t, rec, &resp)
	return resp.Token
}

func (a *testAPI) createMovie(token string, movie types.Movie) types.Movie {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/movies", token, movie)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var created types.Movie
	decode(a.t, rec, &created)
	return created
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type failingCredentials struct{}

var errStoreDown = errors.New("connection refused")

func (failingCredentials) GetByUsername(context.Context, string) (types.User, error) {
	return types.User{}, errStoreDown
}

func (failingCredentials) GetByID(context.Context, string) (types.User, error) {
	return types.User{}, errStoreDown
}

type memoryPosters struct {
	objects map[string][]byte
}

func newMemoryPosters() *memoryPosters {
	return &memoryPosters{objects: map[string][]byte{}}
}

func (m *memoryPosters) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memoryPosters) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryPosters) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}
