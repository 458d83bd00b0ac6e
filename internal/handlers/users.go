package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myflix/movieapi/internal/logging"
	"github.com/myflix/movieapi/internal/services"
)

// UserHandler provides HTTP handlers for accounts and favorites.
type UserHandler struct {
	users  *services.UserService
	logger logging.Logger
}

func NewUserHandler(users *services.UserService, logger logging.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// UserRouter registers user routes on the given router. Registration is
// public; everything else goes through authMiddleware.
func UserRouter(r chi.Router, users *services.UserService, authMiddleware func(http.Handler) http.Handler, logger logging.Logger) {
	handler := NewUserHandler(users, logger)

	r.Post("/", handler.Register)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", handler.ListUsers)
		r.Route("/{username}", func(r chi.Router) {
			r.Get("/", handler.GetUser)
			r.With(requireSelf).Put("/", handler.UpdateUser)
			r.With(requireSelf).Delete("/", handler.DeleteUser)
			r.With(requireSelf).Post("/movies/{movieID}", handler.AddFavorite)
			r.With(requireSelf).Delete("/movies/{movieID}", handler.RemoveFavorite)
		})
	})
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) {
			writeError(w, http.StatusBadRequest, req.Username+" already exists")
			return
		}
		writeServiceError(w, r, h.logger, err, "user not found", "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "users not found", "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByUsername(r.Context(), pathParam(r, "username"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "user not found", "failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.users.Update(r.Context(), pathParam(r, "username"), req)
	if err != nil {
		if errors.Is(err, services.ErrUsernameTaken) && req.Username != nil {
			writeError(w, http.StatusBadRequest, *req.Username+" already exists")
			return
		}
		writeServiceError(w, r, h.logger, err, "user not found", "failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := pathParam(r, "username")
	if err := h.users.Delete(r.Context(), username); err != nil {
		writeServiceError(w, r, h.logger, err, username+" was not found.", "failed to delete user")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: username + " was deleted."})
}

func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.AddFavorite(r.Context(), pathParam(r, "username"), pathParam(r, "movieID"))
	if err != nil {
		if errors.Is(err, services.ErrMovieNotFound) {
			writeError(w, http.StatusNotFound, "movie not found")
			return
		}
		writeServiceError(w, r, h.logger, err, "user not found", "failed to add favorite")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.RemoveFavorite(r.Context(), pathParam(r, "username"), pathParam(r, "movieID"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "user not found", "failed to remove favorite")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
