package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myflix/movieapi/internal/logging"
	"github.com/myflix/movieapi/internal/services"
	"github.com/myflix/movieapi/internal/storage"
	"github.com/myflix/movieapi/internal/store"
	"github.com/myflix/movieapi/types"
)

const (
	maxMultipartMemory = 8 << 20
	maxPosterBytes     = 10 << 20
	formFieldImage     = "image"
)

// MovieHandler provides HTTP handlers for the catalog.
type MovieHandler struct {
	movies *services.MovieService
	logger logging.Logger
}

func NewMovieHandler(movies *services.MovieService, logger logging.Logger) *MovieHandler {
	return &MovieHandler{movies: movies, logger: logger}
}

// MovieRouter registers movie routes on the given router. Every route requires
// authentication; poster routes exist only when image storage is configured.
func MovieRouter(r chi.Router, movies *services.MovieService, authMiddleware func(http.Handler) http.Handler, logger logging.Logger) {
	handler := NewMovieHandler(movies, logger)

	r.Use(authMiddleware)
	r.Get("/", handler.ListMovies)
	r.Post("/", handler.CreateMovie)
	r.Get("/genres/{name}", handler.GetGenre)
	r.Get("/directors/{name}", handler.GetDirector)
	r.Route("/{title}", func(r chi.Router) {
		r.Get("/", handler.GetMovie)
		r.Put("/", handler.UpdateMovie)
		r.Delete("/", handler.DeleteMovie)
		if movies.ImagesEnabled() {
			r.Put("/image", handler.UploadImage)
			r.Get("/image", handler.GetImage)
		}
	})
}

func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.movies.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "movies not found", "failed to list movies")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.movies.GetByTitle(r.Context(), pathParam(r, "title"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "movie not found", "failed to load movie")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *MovieHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	genre, err := h.movies.Genre(r.Context(), pathParam(r, "name"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "genre not found", "failed to load genre")
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (h *MovieHandler) GetDirector(w http.ResponseWriter, r *http.Request) {
	director, err := h.movies.Director(r.Context(), pathParam(r, "name"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "director not found", "failed to load director")
		return
	}
	writeJSON(w, http.StatusOK, director)
}

func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req types.Movie
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	movie, err := h.movies.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrTitleTaken) {
			writeError(w, http.StatusBadRequest, req.Title+" already exists")
			return
		}
		writeServiceError(w, r, h.logger, err, "movie not found", "failed to create movie")
		return
	}
	writeJSON(w, http.StatusCreated, movie)
}

func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var req types.Movie
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	movie, err := h.movies.Update(r.Context(), pathParam(r, "title"), req)
	if err != nil {
		if errors.Is(err, services.ErrTitleTaken) {
			writeError(w, http.StatusBadRequest, req.Title+" already exists")
			return
		}
		writeServiceError(w, r, h.logger, err, "movie not found", "failed to update movie")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	title := pathParam(r, "title")
	if err := h.movies.Delete(r.Context(), title); err != nil {
		writeServiceError(w, r, h.logger, err, title+" was not found.", "failed to delete movie")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: title + " was deleted."})
}

// UploadImage stores the multipart "image" field as the movie's poster.
func (h *MovieHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPosterBytes)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile(formFieldImage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image")
		return
	}
	defer file.Close()

	movie, err := h.movies.SetImage(r.Context(), pathParam(r, "title"), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(w, r, h.logger, err, "movie not found", "failed to upload image")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *MovieHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	rc, contentType, err := h.movies.OpenImage(r.Context(), pathParam(r, "title"))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "image not found")
			return
		}
		writeServiceError(w, r, h.logger, err, "image not found", "failed to load image")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn(r.Context(), "stream image failed", "error", err)
	}
}
