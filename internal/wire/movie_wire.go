package wire

import (
	"github.com/go-chi/chi/v5"

	"github.com/zoebbogner/popcorn-palace/internal/adaptor"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler) {
	r.Route("/movies", func(r chi.Router) {
		r.Get("/all", movieHandler.GetAllMovies)
		r.Post("/", movieHandler.AddMovie)
		r.Post("/update/{movieTitle}", movieHandler.UpdateMovie)
		r.Delete("/{movieTitle}", movieHandler.DeleteMovie)
	})
}
