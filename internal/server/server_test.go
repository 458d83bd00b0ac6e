package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myflix/movieapi/config"
	"github.com/myflix/movieapi/internal/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		ServerPort:   0,
		StoreBackend: config.StoreMemory,
		JWT:          config.JWTConfig{Secret: "server-test-secret", TTL: time.Hour},
		Storage:      config.StorageConfig{Backend: config.BackendNone},
		MQ:           config.MQConfig{Backend: config.BackendNone},
	}
}

func TestNew_MemoryBackend(t *testing.T) {
	srv, err := New(context.Background(), memoryConfig(), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown() })

	assert.Equal(t, ":8080", srv.httpServer.Addr)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movies", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNew_RegisterLoginAndBrowse(t *testing.T) {
	srv, err := New(context.Background(), memoryConfig(), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown() })
	router := srv.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"username":"alice","password":"secret123","email":"alice@example.com"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"alice","password":"secret123"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"token":"`)
}

func TestNew_RequiresSecret(t *testing.T) {
	cfg := memoryConfig()
	cfg.JWT.Secret = ""

	_, err := New(context.Background(), cfg, logging.Discard())
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestNew_UnknownBackends(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreBackend = "sqlite"
	_, err := New(context.Background(), cfg, logging.Discard())
	assert.ErrorContains(t, err, `unknown store backend "sqlite"`)

	cfg = memoryConfig()
	cfg.MQ.Backend = "kafka"
	_, err = New(context.Background(), cfg, logging.Discard())
	assert.ErrorContains(t, err, `unknown mq backend "kafka"`)
}
