package wire

import (
	"github.com/go-chi/chi/v5"

	"github.com/zoebbogner/popcorn-palace/internal/adaptor"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	// POST /bookings - claim one seat of a showtime
	r.Post("/bookings", bookingHandler.CreateBooking)
}
