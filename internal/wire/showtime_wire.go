package wire

import (
	"github.com/go-chi/chi/v5"

	"github.com/zoebbogner/popcorn-palace/internal/adaptor"
)

func wireShowtime(r chi.Router, showtimeHandler *adaptor.ShowtimeHandler) {
	r.Route("/showtimes", func(r chi.Router) {
		r.Get("/{showtimeId}", showtimeHandler.GetShowtime)
		r.Post("/", showtimeHandler.AddShowtime)
		r.Post("/update/{showtimeId}", showtimeHandler.UpdateShowtime)
		r.Delete("/{showtimeId}", showtimeHandler.DeleteShowtime)
	})
}
