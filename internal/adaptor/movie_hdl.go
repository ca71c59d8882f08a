package adaptor

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/internal/dto/request"
	"github.com/zoebbogner/popcorn-palace/internal/usecase"
	"github.com/zoebbogner/popcorn-palace/pkg/utils"
)

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// GetAllMovies handles GET /movies/all
func (h *MovieHandler) GetAllMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.GetAllMovies(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get movies")
		return
	}

	utils.ResponseSuccess(w, movies)
}

// AddMovie handles POST /movies
func (h *MovieHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}

	movie, err := h.service.AddMovie(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add movie")
		return
	}

	utils.ResponseSuccess(w, movie)
}

// UpdateMovie handles POST /movies/update/{movieTitle}
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "movieTitle")

	var req request.MovieRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), title, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update movie")
		return
	}

	utils.ResponseSuccess(w, movie)
}

// DeleteMovie handles DELETE /movies/{movieTitle}
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "movieTitle")

	if err := h.service.DeleteMovie(r.Context(), title); err != nil {
		handleServiceError(w, h.log, err, "delete movie")
		return
	}

	utils.ResponseEmpty(w)
}
