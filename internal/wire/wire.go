package wire

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/internal/adaptor"
	"github.com/zoebbogner/popcorn-palace/internal/data/repository"
	"github.com/zoebbogner/popcorn-palace/internal/event"
	"github.com/zoebbogner/popcorn-palace/internal/usecase"
	"github.com/zoebbogner/popcorn-palace/pkg/middleware"
	"github.com/zoebbogner/popcorn-palace/pkg/utils"
)

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds the assembled HTTP surface
type App struct {
	Router *chi.Mux
}

// Wiring builds services and handlers once and mounts them on a router.
func Wiring(
	repo *repository.Repository,
	db Pinger,
	events event.Publisher,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, events, config, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: NewRouter(handler, db, config, logger),
	}
}

// NewRouter configures the chi router
func NewRouter(
	handler *adaptor.Handler,
	db Pinger,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	if config.App.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(config.App.RequestTimeout))
	}

	// Apply routes
	wireMovie(r, handler.Movie)
	wireShowtime(r, handler.Showtime)
	wireBooking(r, handler.Booking)

	r.Get("/health", health(db, logger))

	return r
}

func health(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			utils.ResponseError(w, http.StatusServiceUnavailable, "Service Unavailable", "Database is not reachable")
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
