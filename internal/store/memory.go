package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/myflix/movieapi/types"
)

// MemoryUserRepository keeps users in process memory. It is safe for
// concurrent use and is meant for tests and local development.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	order []string
	users map[string]types.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]types.User)}
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.findUsername(username); ok {
		return cloneUser(r.users[id]), nil
	}
	return types.User{}, ErrNotFound
}

func (r *MemoryUserRepository) List(_ context.Context) ([]types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]types.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, cloneUser(r.users[id]))
	}
	return users, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.findUsername(user.Username); taken {
		return types.User{}, ErrConflict
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}
	r.users[user.ID] = cloneUser(user)
	r.order = append(r.order, user.ID)
	return cloneUser(user), nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return types.User{}, ErrNotFound
	}
	if id, taken := r.findUsername(user.Username); taken && id != user.ID {
		return types.User{}, ErrConflict
	}

	existing.Username = user.Username
	existing.Email = user.Email
	existing.PasswordHash = user.PasswordHash
	existing.Birthday = user.Birthday
	existing.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = existing
	return cloneUser(existing), nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}

func (r *MemoryUserRepository) AddFavorite(_ context.Context, userID, movieID string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return types.User{}, ErrNotFound
	}
	if !user.HasFavorite(movieID) {
		user.FavoriteMovies = append(slices.Clone(user.FavoriteMovies), movieID)
		user.UpdatedAt = time.Now().UTC()
		r.users[userID] = user
	}
	return cloneUser(user), nil
}

func (r *MemoryUserRepository) RemoveFavorite(_ context.Context, userID, movieID string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return types.User{}, ErrNotFound
	}
	if user.HasFavorite(movieID) {
		user.FavoriteMovies = slices.DeleteFunc(slices.Clone(user.FavoriteMovies), func(v string) bool { return v == movieID })
		user.UpdatedAt = time.Now().UTC()
		r.users[userID] = user
	}
	return cloneUser(user), nil
}

// findUsername must be called with r.mu held.
func (r *MemoryUserRepository) findUsername(username string) (string, bool) {
	for id, user := range r.users {
		if user.Username == username {
			return id, true
		}
	}
	return "", false
}

func cloneUser(user types.User) types.User {
	user.FavoriteMovies = slices.Clone(user.FavoriteMovies)
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}
	if user.Birthday != nil {
		birthday := *user.Birthday
		user.Birthday = &birthday
	}
	return user
}

// MemoryMovieRepository keeps movies in process memory.
type MemoryMovieRepository struct {
	mu     sync.RWMutex
	order  []string
	movies map[string]types.Movie
}

func NewMemoryMovieRepository() *MemoryMovieRepository {
	return &MemoryMovieRepository{movies: make(map[string]types.Movie)}
}

func (r *MemoryMovieRepository) List(_ context.Context) ([]types.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	movies := make([]types.Movie, 0, len(r.order))
	for _, id := range r.order {
		movies = append(movies, cloneMovie(r.movies[id]))
	}
	return movies, nil
}

func (r *MemoryMovieRepository) GetByID(_ context.Context, id string) (types.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	movie, ok := r.movies[id]
	if !ok {
		return types.Movie{}, ErrNotFound
	}
	return cloneMovie(movie), nil
}

func (r *MemoryMovieRepository) GetByTitle(_ context.Context, title string) (types.Movie, error) {
	return r.first(func(m types.Movie) bool { return m.Title == title })
}

func (r *MemoryMovieRepository) GetByGenre(_ context.Context, name string) (types.Movie, error) {
	return r.first(func(m types.Movie) bool { return m.Genre.Name == name })
}

func (r *MemoryMovieRepository) GetByDirector(_ context.Context, name string) (types.Movie, error) {
	return r.first(func(m types.Movie) bool { return m.Director.Name == name })
}

func (r *MemoryMovieRepository) Create(_ context.Context, movie types.Movie) (types.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.movies {
		if existing.Title == movie.Title {
			return types.Movie{}, ErrConflict
		}
	}
	movie.ID = uuid.NewString()
	r.movies[movie.ID] = cloneMovie(movie)
	r.order = append(r.order, movie.ID)
	return cloneMovie(movie), nil
}

func (r *MemoryMovieRepository) Update(_ context.Context, movie types.Movie) (types.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.movies[movie.ID]; !ok {
		return types.Movie{}, ErrNotFound
	}
	for id, existing := range r.movies {
		if id != movie.ID && existing.Title == movie.Title {
			return types.Movie{}, ErrConflict
		}
	}
	r.movies[movie.ID] = cloneMovie(movie)
	return cloneMovie(movie), nil
}

func (r *MemoryMovieRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.movies[id]; !ok {
		return ErrNotFound
	}
	delete(r.movies, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}

func (r *MemoryMovieRepository) first(match func(types.Movie) bool) (types.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if movie := r.movies[id]; match(movie) {
			return cloneMovie(movie), nil
		}
	}
	return types.Movie{}, ErrNotFound
}

func cloneMovie(movie types.Movie) types.Movie {
	movie.Actors = slices.Clone(movie.Actors)
	if movie.Actors == nil {
		movie.Actors = []string{}
	}
	return movie
}
