package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/myflix/movieapi/types"
)

// MovieRepository handles persistence for movies in PostgreSQL.
type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

const movieColumns = `
		id, title, description, genre_name, genre_description,
		director_name, director_bio, director_birth, actors, image_path, featured`

func scanMovie(row rowScanner) (types.Movie, error) {
	var (
		movie  types.Movie
		actors []string
	)
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Genre.Name,
		&movie.Genre.Description,
		&movie.Director.Name,
		&movie.Director.Bio,
		&movie.Director.Birth,
		pq.Array(&actors),
		&movie.ImagePath,
		&movie.Featured,
	)
	if err != nil {
		return types.Movie{}, err
	}
	if actors == nil {
		actors = []string{}
	}
	movie.Actors = actors
	return movie, nil
}

func (r *MovieRepository) List(ctx context.Context) ([]types.Movie, error) {
	query := `SELECT` + movieColumns + `
		FROM movies
		ORDER BY created_at, title`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]types.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *MovieRepository) GetByID(ctx context.Context, id string) (types.Movie, error) {
	if !validUUID(id) {
		return types.Movie{}, ErrNotFound
	}
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *MovieRepository) GetByTitle(ctx context.Context, title string) (types.Movie, error) {
	return r.getOne(ctx, `WHERE title = $1`, title)
}

func (r *MovieRepository) GetByGenre(ctx context.Context, name string) (types.Movie, error) {
	return r.getOne(ctx, `WHERE genre_name = $1 ORDER BY created_at LIMIT 1`, name)
}

func (r *MovieRepository) GetByDirector(ctx context.Context, name string) (types.Movie, error) {
	return r.getOne(ctx, `WHERE director_name = $1 ORDER BY created_at LIMIT 1`, name)
}

func (r *MovieRepository) getOne(ctx context.Context, where string, arg any) (types.Movie, error) {
	query := `SELECT` + movieColumns + `
		FROM movies
		` + where
	movie, err := scanMovie(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Movie{}, ErrNotFound
		}
		return types.Movie{}, err
	}
	return movie, nil
}

func (r *MovieRepository) Create(ctx context.Context, movie types.Movie) (types.Movie, error) {
	movie.ID = uuid.NewString()
	if movie.Actors == nil {
		movie.Actors = []string{}
	}

	const query = `
		INSERT INTO movies (id, title, description, genre_name, genre_description,
			director_name, director_bio, director_birth, actors, image_path, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.Genre.Name,
		movie.Genre.Description,
		movie.Director.Name,
		movie.Director.Bio,
		movie.Director.Birth,
		pq.Array(movie.Actors),
		movie.ImagePath,
		movie.Featured,
	); err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return types.Movie{}, ErrConflict
		}
		return types.Movie{}, err
	}
	return movie, nil
}

func (r *MovieRepository) Update(ctx context.Context, movie types.Movie) (types.Movie, error) {
	if !validUUID(movie.ID) {
		return types.Movie{}, ErrNotFound
	}
	if movie.Actors == nil {
		movie.Actors = []string{}
	}

	const query = `
		UPDATE movies
		SET title = $1,
			description = $2,
			genre_name = $3,
			genre_description = $4,
			director_name = $5,
			director_bio = $6,
			director_birth = $7,
			actors = $8,
			image_path = $9,
			featured = $10,
			updated_at = NOW()
		WHERE id = $11`
	result, err := r.db.ExecContext(
		ctx,
		query,
		movie.Title,
		movie.Description,
		movie.Genre.Name,
		movie.Genre.Description,
		movie.Director.Name,
		movie.Director.Bio,
		movie.Director.Birth,
		pq.Array(movie.Actors),
		movie.ImagePath,
		movie.Featured,
		movie.ID,
	)
	if err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return types.Movie{}, ErrConflict
		}
		return types.Movie{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Movie{}, err
	}
	if affected == 0 {
		return types.Movie{}, ErrNotFound
	}
	return movie, nil
}

func (r *MovieRepository) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return ErrNotFound
	}
	const query = `DELETE FROM movies WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
