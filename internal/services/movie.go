package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/myflix/movieapi/internal/logging"
	"github.com/myflix/movieapi/internal/store"
	"github.com/myflix/movieapi/types"
)

// MovieRepository defines persistence operations for movies.
type MovieRepository interface {
	List(ctx context.Context) ([]types.Movie, error)
	GetByID(ctx context.Context, id string) (types.Movie, error)
	GetByTitle(ctx context.Context, title string) (types.Movie, error)
	GetByGenre(ctx context.Context, name string) (types.Movie, error)
	GetByDirector(ctx context.Context, name string) (types.Movie, error)
	Create(ctx context.Context, movie types.Movie) (types.Movie, error)
	Update(ctx context.Context, movie types.Movie) (types.Movie, error)
	Delete(ctx context.Context, id string) error
}

// PosterStorage stores poster images by object key. *storage.Storage satisfies it.
type PosterStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

const posterPrefix = "posters/"

// MovieService encapsulates catalog use-cases.
type MovieService struct {
	repo    MovieRepository
	posters PosterStorage
	events  emitter
	logger  logging.Logger
}

// NewMovieService wires the catalog use-cases. posters and publisher may be nil.
func NewMovieService(repo MovieRepository, posters PosterStorage, publisher EventPublisher, logger logging.Logger) *MovieService {
	logger = logger.With("component", "movie_service")
	return &MovieService{
		repo:    repo,
		posters: posters,
		events:  emitter{publisher: publisher, logger: logger},
		logger:  logger,
	}
}

// ImagesEnabled reports whether poster uploads are backed by object storage.
func (s *MovieService) ImagesEnabled() bool {
	return s.posters != nil
}

func (s *MovieService) List(ctx context.Context) ([]types.Movie, error) {
	return s.repo.List(ctx)
}

func (s *MovieService) GetByTitle(ctx context.Context, title string) (types.Movie, error) {
	return s.repo.GetByTitle(ctx, title)
}

// Genre returns the genre record of the first movie in that genre.
func (s *MovieService) Genre(ctx context.Context, name string) (types.Genre, error) {
	movie, err := s.repo.GetByGenre(ctx, name)
	if err != nil {
		return types.Genre{}, err
	}
	return movie.Genre, nil
}

// Director returns the director record of the first movie they directed.
func (s *MovieService) Director(ctx context.Context, name string) (types.Director, error) {
	movie, err := s.repo.GetByDirector(ctx, name)
	if err != nil {
		return types.Director{}, err
	}
	return movie.Director, nil
}

func validateMovie(movie types.Movie) error {
	err := validation.ValidateStruct(&movie,
		validation.Field(&movie.Title, validation.Required.Error("title is required")),
		validation.Field(&movie.Description, validation.Required.Error("description is required")),
	)
	return asValidationError(err)
}

func (s *MovieService) Create(ctx context.Context, movie types.Movie) (types.Movie, error) {
	movie.ID = ""
	movie.Title = strings.TrimSpace(movie.Title)
	if err := validateMovie(movie); err != nil {
		return types.Movie{}, err
	}

	created, err := s.repo.Create(ctx, movie)
	if errors.Is(err, store.ErrConflict) {
		return types.Movie{}, fmt.Errorf("%w: %s", ErrTitleTaken, movie.Title)
	}
	if err != nil {
		return types.Movie{}, err
	}

	s.events.emit(ctx, MoviesChannel, Event{Type: EventMovieCreated, MovieID: created.ID, MovieTitle: created.Title})
	return created, nil
}

// Update replaces the movie titled title with movie, keeping its ID and,
// when movie carries none, its poster.
func (s *MovieService) Update(ctx context.Context, title string, movie types.Movie) (types.Movie, error) {
	movie.Title = strings.TrimSpace(movie.Title)
	if err := validateMovie(movie); err != nil {
		return types.Movie{}, err
	}

	current, err := s.repo.GetByTitle(ctx, title)
	if err != nil {
		return types.Movie{}, err
	}
	movie.ID = current.ID
	if movie.ImagePath == "" {
		movie.ImagePath = current.ImagePath
	}

	updated, err := s.repo.Update(ctx, movie)
	if errors.Is(err, store.ErrConflict) {
		return types.Movie{}, fmt.Errorf("%w: %s", ErrTitleTaken, movie.Title)
	}
	if err != nil {
		return types.Movie{}, err
	}

	s.events.emit(ctx, MoviesChannel, Event{Type: EventMovieUpdated, MovieID: updated.ID, MovieTitle: updated.Title})
	return updated, nil
}

func (s *MovieService) Delete(ctx context.Context, title string) error {
	movie, err := s.repo.GetByTitle(ctx, title)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, movie.ID); err != nil {
		return err
	}

	if s.posters != nil && strings.HasPrefix(movie.ImagePath, posterPrefix) {
		if err := s.posters.Delete(ctx, movie.ImagePath); err != nil {
			s.logger.Warn(ctx, "delete poster failed", "movie_id", movie.ID, "key", movie.ImagePath, "error", err)
		}
	}

	s.events.emit(ctx, MoviesChannel, Event{Type: EventMovieDeleted, MovieID: movie.ID, MovieTitle: movie.Title})
	return nil
}

// SetImage uploads a poster for the movie titled title and records its key.
func (s *MovieService) SetImage(ctx context.Context, title, filename string, r io.Reader, size int64, contentType string) (types.Movie, error) {
	if s.posters == nil {
		return types.Movie{}, ErrStorageNotConfigured
	}
	movie, err := s.repo.GetByTitle(ctx, title)
	if err != nil {
		return types.Movie{}, err
	}

	ext := strings.ToLower(path.Ext(filename))
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			contentType = byExt
		}
	}
	key := posterPrefix + movie.ID + ext
	if err := s.posters.Put(ctx, key, r, size, contentType); err != nil {
		return types.Movie{}, fmt.Errorf("upload poster: %w", err)
	}

	movie.ImagePath = key
	updated, err := s.repo.Update(ctx, movie)
	if err != nil {
		return types.Movie{}, err
	}

	s.logger.Info(ctx, "poster uploaded", "movie_id", movie.ID, "key", key, "size", size)
	s.events.emit(ctx, MoviesChannel, Event{Type: EventMovieUpdated, MovieID: updated.ID, MovieTitle: updated.Title})
	return updated, nil
}

// OpenImage returns a reader over the movie's poster and its content type.
// The caller closes the reader.
func (s *MovieService) OpenImage(ctx context.Context, title string) (io.ReadCloser, string, error) {
	if s.posters == nil {
		return nil, "", ErrStorageNotConfigured
	}
	movie, err := s.repo.GetByTitle(ctx, title)
	if err != nil {
		return nil, "", err
	}
	if !strings.HasPrefix(movie.ImagePath, posterPrefix) {
		return nil, "", store.ErrNotFound
	}

	rc, err := s.posters.Get(ctx, movie.ImagePath)
	if err != nil {
		return nil, "", err
	}
	contentType := mime.TypeByExtension(path.Ext(movie.ImagePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return rc, contentType, nil
}
