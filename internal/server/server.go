package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/myflix/movieapi/config"
	"github.com/myflix/movieapi/internal/auth"
	"github.com/myflix/movieapi/internal/db"
	"github.com/myflix/movieapi/internal/handlers"
	"github.com/myflix/movieapi/internal/logging"
	"github.com/myflix/movieapi/internal/mq"
	"github.com/myflix/movieapi/internal/services"
	"github.com/myflix/movieapi/internal/storage"
	"github.com/myflix/movieapi/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     logging.Logger

	db      *sql.DB
	mongo   *mongo.Client
	storage *storage.Storage
	queue   *mq.MQ
}

// New builds every dependency selected by cfg and registers the routes.
func New(ctx context.Context, cfg config.Config, logger logging.Logger) (*Server, error) {
	s := &Server{logger: logger}

	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return nil, fmt.Errorf("JWT_SECRET: %w", err)
	}

	users, movies, err := s.openStore(ctx, cfg)
	if err != nil {
		_ = s.Shutdown()
		return nil, err
	}

	if s.storage, err = storage.Open(ctx, cfg.Storage); err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if s.queue, err = mq.Open(ctx, cfg.MQ); err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("open mq: %w", err)
	}

	var (
		posters   services.PosterStorage
		publisher services.EventPublisher
	)
	if s.storage != nil {
		posters = s.storage
	}
	if s.queue != nil {
		publisher = s.queue
	}

	hasher := auth.NewPasswordHasher()
	userService := services.NewUserService(users, movies, hasher, publisher, logger)
	movieService := services.NewMovieService(movies, posters, publisher, logger)
	authenticator := auth.NewAuthenticator(users, hasher, logger)
	authMiddleware := handlers.RequireAuth(auth.NewTokenVerifier(tokens, users, logger), logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/", handlers.Welcome)
	router.Get("/healthz", handlers.Healthz)
	handlers.AuthRouter(router, authenticator, tokens, logger)
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, userService, authMiddleware, logger)
	})
	router.Route("/movies", func(r chi.Router) {
		handlers.MovieRouter(r, movieService, authMiddleware, logger)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	s.router = router
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info(ctx, "server configured",
		"addr", s.httpServer.Addr,
		"store", cfg.StoreBackend,
		"storage", cfg.Storage.Backend,
		"mq", cfg.MQ.Backend,
		"token_ttl", tokens.TTL().String(),
	)
	return s, nil
}

type userRepository interface {
	services.UserRepository
	auth.CredentialStore
}

func (s *Server) openStore(ctx context.Context, cfg config.Config) (userRepository, services.MovieRepository, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return store.NewMemoryUserRepository(), store.NewMemoryMovieRepository(), nil
	case config.StorePostgres:
		conn, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		s.db = conn
		return store.NewUserRepository(conn), store.NewMovieRepository(conn), nil
	case config.StoreMongo, "":
		client, database, err := db.OpenMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, fmt.Errorf("open mongo: %w", err)
		}
		s.mongo = client
		if err := store.EnsureMongoIndexes(ctx, database); err != nil {
			return nil, nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return store.NewMongoUserRepository(database), store.NewMongoMovieRepository(database), nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown releases every backend and stops the HTTP server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.mongo != nil {
		_ = s.mongo.Disconnect(ctx)
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
