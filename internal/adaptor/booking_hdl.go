package adaptor

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/internal/dto/request"
	"github.com/zoebbogner/popcorn-palace/internal/usecase"
	"github.com/zoebbogner/popcorn-palace/pkg/utils"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.BookingRequest
	if !decodeJSON(w, r, h.log, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, booking)
}
