package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/myflix/movieapi/internal/auth"
	"github.com/myflix/movieapi/internal/logging"
	"github.com/myflix/movieapi/types"
)

// AuthHandler provides the login endpoint.
type AuthHandler struct {
	authenticator *auth.Authenticator
	tokens        *auth.TokenService
	logger        logging.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(authenticator *auth.Authenticator, tokens *auth.TokenService, logger logging.Logger) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		tokens:        tokens,
		logger:        logger,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, authenticator *auth.Authenticator, tokens *auth.TokenService, logger logging.Logger) {
	handler := NewAuthHandler(authenticator, tokens, logger)

	r.Post("/login", handler.Login)
}

// RequireAuth enforces bearer token authentication and places the live user
// record in the request context. The wrapped handler never runs on failure.
func RequireAuth(verifier *auth.TokenVerifier, logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := verifier.VerifyRequest(r)
			if err != nil {
				if errors.Is(err, auth.ErrStoreUnavailable) {
					logger.Error(r.Context(), "token verification failed", "error", err)
					writeError(w, http.StatusInternalServerError, "failed to authenticate")
					return
				}
				logger.Debug(r.Context(), "request rejected", "reason", auth.ReasonOf(err))
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// requireSelf allows the request only when the authenticated user is the
// user named by the {username} path parameter.
func requireSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if user.Username != pathParam(r, "username") {
			writeError(w, http.StatusForbidden, "you may only modify your own account")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Login verifies credentials and returns a token. Unknown usernames and wrong
// passwords get the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	user, err := h.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAuthenticationFailed) {
			writeError(w, http.StatusBadRequest, auth.ErrAuthenticationFailed.Error())
			return
		}
		h.logger.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error(r.Context(), "issue token failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	h.logger.Info(r.Context(), "user logged in", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusOK, LoginResponse{User: user, Token: token})
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  types.User `json:"user"`
	Token string     `json:"token"`
}
