package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/myflix/movieapi/types"
)

// UserRepository handles persistence for users in PostgreSQL.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
		u.id, u.username, u.email, u.password_hash, u.birthday, u.created_at, u.updated_at,
		ARRAY(SELECT f.movie_id::text FROM user_favorites f WHERE f.user_id = u.id ORDER BY f.id)`

func scanUser(row rowScanner) (types.User, error) {
	var (
		user     types.User
		birthday sql.NullTime
		favs     []string
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&birthday,
		&user.CreatedAt,
		&user.UpdatedAt,
		pq.Array(&favs),
	)
	if err != nil {
		return types.User{}, err
	}
	if birthday.Valid {
		b := birthday.Time
		user.Birthday = &b
	}
	if favs == nil {
		favs = []string{}
	}
	user.FavoriteMovies = favs
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	if !validUUID(id) {
		return types.User{}, ErrNotFound
	}
	query := `SELECT` + userColumns + `
		FROM users u
		WHERE u.id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	query := `SELECT` + userColumns + `
		FROM users u
		WHERE u.username = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]types.User, error) {
	query := `SELECT` + userColumns + `
		FROM users u
		ORDER BY u.created_at, u.username`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.FavoriteMovies = []string{}

	const query = `
		INSERT INTO users (id, username, email, password_hash, birthday, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		nullTime(user.Birthday),
		user.CreatedAt,
		user.UpdatedAt,
	); err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return types.User{}, ErrConflict
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	if !validUUID(user.ID) {
		return types.User{}, ErrNotFound
	}

	const query = `
		UPDATE users
		SET username = $1,
			email = $2,
			password_hash = $3,
			birthday = $4,
			updated_at = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.PasswordHash,
		nullTime(user.Birthday),
		time.Now().UTC(),
		user.ID,
	)
	if err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return types.User{}, ErrConflict
		}
		return types.User{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.User{}, err
	}
	if affected == 0 {
		return types.User{}, ErrNotFound
	}
	return r.GetByID(ctx, user.ID)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if !validUUID(id) {
		return ErrNotFound
	}
	const query = `DELETE FROM users WHERE id = $1`
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

// AddFavorite appends movieID to the user's favorites unless it is already there.
func (r *UserRepository) AddFavorite(ctx context.Context, userID, movieID string) (types.User, error) {
	if !validUUID(userID) || !validUUID(movieID) {
		return types.User{}, ErrNotFound
	}
	const query = `
		INSERT INTO user_favorites (user_id, movie_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, movie_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, movieID); err != nil {
		if isPQCode(err, pqForeignKeyViolation) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return r.touch(ctx, userID)
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, userID, movieID string) (types.User, error) {
	if !validUUID(userID) {
		return types.User{}, ErrNotFound
	}
	if validUUID(movieID) {
		const query = `DELETE FROM user_favorites WHERE user_id = $1 AND movie_id = $2`
		if _, err := r.db.ExecContext(ctx, query, userID, movieID); err != nil {
			return types.User{}, err
		}
	}
	return r.touch(ctx, userID)
}

func (r *UserRepository) touch(ctx context.Context, userID string) (types.User, error) {
	const query = `UPDATE users SET updated_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), userID); err != nil {
		return types.User{}, err
	}
	return r.GetByID(ctx, userID)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
