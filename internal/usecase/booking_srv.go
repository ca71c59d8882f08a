package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v3"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/internal/data/entity"
	"github.com/zoebbogner/popcorn-palace/internal/data/repository"
	"github.com/zoebbogner/popcorn-palace/internal/dto/request"
	"github.com/zoebbogner/popcorn-palace/internal/dto/response"
	"github.com/zoebbogner/popcorn-palace/internal/event"
	"github.com/zoebbogner/popcorn-palace/pkg/database"
	"github.com/zoebbogner/popcorn-palace/pkg/utils"
)

type BookingService interface {
	CreateBooking(ctx context.Context, req *request.BookingRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo   *repository.Repository
	events event.Publisher
	config utils.BookingConfig
	log    *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	events event.Publisher,
	config utils.BookingConfig,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:   repo,
		events: events,
		config: config,
		log:    log.With(zap.String("service", "booking")),
	}
}

var serializable = pgx.TxOptions{IsoLevel: pgx.Serializable}

// CreateBooking claims one seat of one showtime. Concurrent claims of the
// same seat resolve to exactly one success; every loser gets
// SeatAlreadyBooked.
func (s *bookingService) CreateBooking(ctx context.Context, req *request.BookingRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	booking := &entity.Booking{
		ShowtimeID: *req.ShowtimeID,
		SeatNumber: *req.SeatNumber,
		UserID:     req.UserID,
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := s.repo.InTx(ctx, serializable, func(tx *repository.Repository) error {
			return s.claimSeat(ctx, tx, booking)
		})
		if err == nil {
			return nil
		}
		if database.IsSerializationFailure(err) {
			s.log.Debug("Booking conflict, retrying",
				zap.Int("attempt", attempt),
				zap.Int64("showtime_id", booking.ShowtimeID),
				zap.Int("seat_number", booking.SeatNumber),
			)
			return err
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(operation, s.retryPolicy(ctx)); err != nil {
		return nil, s.resolve(ctx, booking, attempt, err)
	}

	s.log.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("showtime_id", booking.ShowtimeID),
		zap.Int("seat_number", booking.SeatNumber),
		zap.String("user_id", booking.UserID),
		zap.Int("attempts", attempt),
	)

	publish(ctx, s.events, s.log, event.BookingCreated{
		Header:     event.NewHeader(),
		BookingID:  booking.ID,
		ShowtimeID: booking.ShowtimeID,
		SeatNumber: booking.SeatNumber,
		UserID:     booking.UserID,
	})

	return &response.BookingResponse{BookingID: booking.ID}, nil
}

// claimSeat is one attempt: showtime first, then the seat pre-check, then
// the insert whose unique constraint settles any race the pre-check missed.
func (s *bookingService) claimSeat(ctx context.Context, tx *repository.Repository, booking *entity.Booking) error {
	showtime, err := tx.Showtime.FindByID(ctx, booking.ShowtimeID)
	if err != nil {
		return err
	}
	if showtime == nil {
		return ShowtimeNotFound(booking.ShowtimeID)
	}

	taken, err := tx.Booking.ExistsBySeat(ctx, booking.ShowtimeID, booking.SeatNumber)
	if err != nil {
		return err
	}
	if taken {
		return SeatAlreadyBooked(booking.ShowtimeID, booking.SeatNumber)
	}

	if err := tx.Booking.Create(ctx, booking); err != nil {
		switch {
		case database.IsUniqueViolation(err):
			return SeatAlreadyBooked(booking.ShowtimeID, booking.SeatNumber)
		case database.IsForeignKeyViolation(err):
			return ShowtimeNotFound(booking.ShowtimeID)
		}
		return err
	}

	return nil
}

func (s *bookingService) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.config.RetryInterval
	b.Multiplier = 2
	b.MaxInterval = 8 * s.config.RetryInterval
	b.MaxElapsedTime = 0
	if b.InitialInterval <= 0 {
		b.InitialInterval = 100 * time.Millisecond
		b.MaxInterval = time.Second
	}

	retries := s.config.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithMaxRetries(backoff.WithContext(b, ctx), uint64(retries))
}

// resolve maps the final failure. Timeouts are never read as a seat
// decision; exhausted serialization retries are decided by a fresh look at
// the seat.
func (s *bookingService) resolve(ctx context.Context, booking *entity.Booking, attempts int, err error) error {
	var domainErr *Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case database.IsTimeout(err):
		s.log.Warn("Booking interrupted",
			zap.Int64("showtime_id", booking.ShowtimeID),
			zap.Int("seat_number", booking.SeatNumber),
			zap.Error(err),
		)
		return ServiceUnavailable(err)
	case database.IsUniqueViolation(err):
		return SeatAlreadyBooked(booking.ShowtimeID, booking.SeatNumber)
	case database.IsSerializationFailure(err):
		taken, checkErr := s.repo.Booking.ExistsBySeat(ctx, booking.ShowtimeID, booking.SeatNumber)
		if checkErr == nil && taken {
			return SeatAlreadyBooked(booking.ShowtimeID, booking.SeatNumber)
		}
		s.log.Warn("Booking retries exhausted",
			zap.Int64("showtime_id", booking.ShowtimeID),
			zap.Int("seat_number", booking.SeatNumber),
			zap.Int("attempts", attempts),
			zap.Error(err),
		)
		return ServiceUnavailable(err)
	}

	s.log.Error("Failed to create booking",
		zap.Int64("showtime_id", booking.ShowtimeID),
		zap.Int("seat_number", booking.SeatNumber),
		zap.Error(err),
	)
	return fmt.Errorf("create booking: %w", err)
}
