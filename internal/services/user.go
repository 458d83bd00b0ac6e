package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/myflix/movieapi/internal/logging"
	"github.com/myflix/movieapi/internal/store"
	"github.com/myflix/movieapi/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id string) error
	AddFavorite(ctx context.Context, userID, movieID string) (types.User, error)
	RemoveFavorite(ctx context.Context, userID, movieID string) (types.User, error)
}

// PasswordHasher hashes plaintext passwords before they are stored.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// RegisterInput is the payload of an account creation request.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Birthday string `json:"birthday"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, withRequired("username is required", usernameRules)...),
		validation.Field(&in.Password, withRequired("password is required", passwordRules)...),
		validation.Field(&in.Email, withRequired("email is required", emailRules)...),
		validation.Field(&in.Birthday, birthdayRules...),
	)
}

// UpdateInput is a partial account update. Nil fields are left unchanged.
type UpdateInput struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
	Birthday *string `json:"birthday"`
}

func (in UpdateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, append([]validation.Rule{
			validation.When(in.Username != nil, validation.Required.Error("username is required")),
		}, usernameRules...)...),
		validation.Field(&in.Password, append([]validation.Rule{
			validation.When(in.Password != nil, validation.Required.Error("password is required")),
		}, passwordRules...)...),
		validation.Field(&in.Email, append([]validation.Rule{
			validation.When(in.Email != nil, validation.Required.Error("email is required")),
		}, emailRules...)...),
		validation.Field(&in.Birthday, birthdayRules...),
	)
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo   UserRepository
	movies MovieRepository
	hasher PasswordHasher
	events emitter
	logger logging.Logger
}

// NewUserService wires the user use-cases. publisher may be nil.
func NewUserService(repo UserRepository, movies MovieRepository, hasher PasswordHasher, publisher EventPublisher, logger logging.Logger) *UserService {
	logger = logger.With("component", "user_service")
	return &UserService{
		repo:   repo,
		movies: movies,
		hasher: hasher,
		events: emitter{publisher: publisher, logger: logger},
		logger: logger,
	}
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Register validates in, hashes the password and creates the account.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (types.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return types.User{}, asValidationError(err)
	}

	if _, err := s.repo.GetByUsername(ctx, in.Username); err == nil {
		return types.User{}, fmt.Errorf("%w: %s", ErrUsernameTaken, in.Username)
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return types.User{}, err
	}
	birthday, _ := parseBirthday(in.Birthday)

	user, err := s.repo.Create(ctx, types.User{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
		Birthday:     birthday,
	})
	if errors.Is(err, store.ErrConflict) {
		return types.User{}, fmt.Errorf("%w: %s", ErrUsernameTaken, in.Username)
	}
	if err != nil {
		return types.User{}, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	s.events.emit(ctx, UsersChannel, Event{Type: EventUserCreated, UserID: user.ID, Username: user.Username})
	return user, nil
}

// Update applies the non-nil fields of in to the account named username.
func (s *UserService) Update(ctx context.Context, username string, in UpdateInput) (types.User, error) {
	if in.Username != nil {
		trimmed := strings.TrimSpace(*in.Username)
		in.Username = &trimmed
	}
	if in.Email != nil {
		trimmed := strings.TrimSpace(*in.Email)
		in.Email = &trimmed
	}
	if err := in.Validate(); err != nil {
		return types.User{}, asValidationError(err)
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return types.User{}, err
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Birthday != nil {
		user.Birthday, _ = parseBirthday(*in.Birthday)
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return types.User{}, err
		}
		user.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, user)
	if errors.Is(err, store.ErrConflict) {
		return types.User{}, fmt.Errorf("%w: %s", ErrUsernameTaken, user.Username)
	}
	if err != nil {
		return types.User{}, err
	}

	s.events.emit(ctx, UsersChannel, Event{Type: EventUserUpdated, UserID: updated.ID, Username: updated.Username})
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return err
	}

	s.logger.Info(ctx, "user deleted", "user_id", user.ID, "username", user.Username)
	s.events.emit(ctx, UsersChannel, Event{Type: EventUserDeleted, UserID: user.ID, Username: user.Username})
	return nil
}

// AddFavorite appends movieID to the user's favorites. Adding a movie that is
// already a favorite leaves the list unchanged.
func (s *UserService) AddFavorite(ctx context.Context, username, movieID string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return types.User{}, err
	}
	movie, err := s.movies.GetByID(ctx, movieID)
	if errors.Is(err, store.ErrNotFound) {
		return types.User{}, ErrMovieNotFound
	}
	if err != nil {
		return types.User{}, err
	}

	updated, err := s.repo.AddFavorite(ctx, user.ID, movie.ID)
	if err != nil {
		return types.User{}, err
	}
	if !user.HasFavorite(movie.ID) {
		s.events.emit(ctx, UsersChannel, Event{
			Type: EventFavoriteAdded, UserID: user.ID, Username: user.Username, MovieID: movie.ID, MovieTitle: movie.Title,
		})
	}
	return updated, nil
}

func (s *UserService) RemoveFavorite(ctx context.Context, username, movieID string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return types.User{}, err
	}

	updated, err := s.repo.RemoveFavorite(ctx, user.ID, movieID)
	if err != nil {
		return types.User{}, err
	}
	if user.HasFavorite(movieID) {
		s.events.emit(ctx, UsersChannel, Event{
			Type: EventFavoriteRemoved, UserID: user.ID, Username: user.Username, MovieID: movieID,
		})
	}
	return updated, nil
}
