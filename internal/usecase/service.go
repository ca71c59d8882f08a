package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/internal/data/repository"
	"github.com/zoebbogner/popcorn-palace/internal/event"
	"github.com/zoebbogner/popcorn-palace/pkg/utils"
)

type Service struct {
	Movie    MovieService
	Showtime ShowtimeService
	Booking  BookingService
}

func NewService(repo *repository.Repository, events event.Publisher, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Movie:    NewMovieService(repo, events, log),
		Showtime: NewShowtimeService(repo, events, log),
		Booking:  NewBookingService(repo, events, config.Booking, log),
	}
}

// publish runs after commit. A lost event never fails the request.
func publish(ctx context.Context, events event.Publisher, log *zap.Logger, evt event.Event) {
	if err := events.Publish(ctx, evt); err != nil {
		log.Warn("Failed to publish event",
			zap.String("event_name", evt.EventName()),
			zap.Error(err),
		)
	}
}
