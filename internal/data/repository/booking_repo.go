package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/internal/data/entity"
	"github.com/zoebbogner/popcorn-palace/pkg/database"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	ExistsBySeat(ctx context.Context, showtimeID int64, seatNumber int) (bool, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (showtime_id, seat_number, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		booking.ShowtimeID,
		booking.SeatNumber,
		booking.UserID,
	).Scan(&booking.ID, &booking.CreatedAt)

	if err != nil {
		logFailure(r.log, "Failed to create booking", err,
			zap.Int64("showtime_id", booking.ShowtimeID),
			zap.Int("seat_number", booking.SeatNumber),
		)
		return fmt.Errorf("create booking for showtime %d seat %d: %w", booking.ShowtimeID, booking.SeatNumber, err)
	}

	return nil
}

func (r *bookingRepository) ExistsBySeat(ctx context.Context, showtimeID int64, seatNumber int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE showtime_id = $1 AND seat_number = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, showtimeID, seatNumber).Scan(&exists); err != nil {
		logFailure(r.log, "Failed to check seat", err,
			zap.Int64("showtime_id", showtimeID),
			zap.Int("seat_number", seatNumber),
		)
		return false, fmt.Errorf("check seat %d of showtime %d: %w", seatNumber, showtimeID, err)
	}

	return exists, nil
}
