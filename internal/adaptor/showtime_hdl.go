package adaptor

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/internal/dto/request"
	"github.com/zoebbogner/popcorn-palace/internal/usecase"
	"github.com/zoebbogner/popcorn-palace/pkg/utils"
)

type ShowtimeHandler struct {
	service usecase.ShowtimeService
	log     *zap.Logger
}

func NewShowtimeHandler(service usecase.ShowtimeService, log *zap.Logger) *ShowtimeHandler {
	return &ShowtimeHandler{
		service: service,
		log:     log.With(zap.String("handler", "showtime")),
	}
}

func (h *ShowtimeHandler) showtimeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := utils.ParseID(chi.URLParam(r, "showtimeId"))
	if err != nil {
		utils.ResponseBadRequest(w, "Showtime ID must be a positive integer")
		return 0, false
	}
	return id, true
}

// GetShowtime handles GET /showtimes/{showtimeId}
func (h *ShowtimeHandler) GetShowtime(w http.ResponseWriter, r *http.Request) {
	id, ok := h.showtimeID(w, r)
	if !ok {
		return
	}

	showtime, err := h.service.GetShowtime(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get showtime")
		return
	}

	utils.ResponseSuccess(w, showtime)
}

// AddShowtime handles POST /showtimes
func (h *ShowtimeHandler) AddShowtime(w http.ResponseWriter, r *http.Request) {
	var req request.ShowtimeRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}

	showtime, err := h.service.AddShowtime(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add showtime")
		return
	}

	utils.ResponseCreated(w, showtime)
}

// UpdateShowtime handles POST /showtimes/update/{showtimeId}
func (h *ShowtimeHandler) UpdateShowtime(w http.ResponseWriter, r *http.Request) {
	id, ok := h.showtimeID(w, r)
	if !ok {
		return
	}

	var req request.ShowtimeRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}

	showtime, err := h.service.UpdateShowtime(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update showtime")
		return
	}

	utils.ResponseSuccess(w, showtime)
}

// DeleteShowtime handles DELETE /showtimes/{showtimeId}
func (h *ShowtimeHandler) DeleteShowtime(w http.ResponseWriter, r *http.Request) {
	id, ok := h.showtimeID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteShowtime(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete showtime")
		return
	}

	utils.ResponseSuccess(w, utils.MessageResponse{
		Message: fmt.Sprintf("Showtime with id %d was deleted successfully.", id),
	})
}
