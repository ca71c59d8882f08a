package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/internal/data/entity"
	"github.com/zoebbogner/popcorn-palace/pkg/database"
)

type ShowtimeRepository interface {
	Create(ctx context.Context, showtime *entity.Showtime) error
	FindByID(ctx context.Context, id int64) (*entity.Showtime, error)
	// FindOverlapping returns the showtimes in theater whose window
	// intersects [start, end).
	FindOverlapping(ctx context.Context, theater string, start, end time.Time) ([]*entity.Showtime, error)
	// LockTheater serializes schedulers of one theater until the
	// surrounding transaction ends. Outside a transaction it is a no-op.
	LockTheater(ctx context.Context, theater string) error
	Update(ctx context.Context, showtime *entity.Showtime) error
	Delete(ctx context.Context, id int64) error
}

type showtimeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewShowtimeRepository(db database.Querier, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

const showtimeColumns = `id, movie_id, theater, start_time, end_time, price, created_at, updated_at`

func scanShowtime(row pgx.Row) (*entity.Showtime, error) {
	var showtime entity.Showtime
	err := row.Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.Theater,
		&showtime.StartTime,
		&showtime.EndTime,
		&showtime.Price,
		&showtime.CreatedAt,
		&showtime.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &showtime, nil
}

func (r *showtimeRepository) Create(ctx context.Context, showtime *entity.Showtime) error {
	query := `
		INSERT INTO showtimes (movie_id, theater, start_time, end_time, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		showtime.MovieID,
		showtime.Theater,
		showtime.StartTime,
		showtime.EndTime,
		showtime.Price,
	).Scan(&showtime.ID, &showtime.CreatedAt, &showtime.UpdatedAt)

	if err != nil {
		logFailure(r.log, "Failed to create showtime", err,
			zap.Int64("movie_id", showtime.MovieID),
			zap.String("theater", showtime.Theater),
			zap.Time("start_time", showtime.StartTime),
		)
		return fmt.Errorf("create showtime for movie %d in %q: %w", showtime.MovieID, showtime.Theater, err)
	}

	return nil
}

func (r *showtimeRepository) FindByID(ctx context.Context, id int64) (*entity.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE id = $1`

	showtime, err := scanShowtime(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime by ID", zap.Error(err), zap.Int64("showtime_id", id))
		return nil, fmt.Errorf("failed to find showtime: %w", err)
	}

	return showtime, nil
}

func (r *showtimeRepository) FindOverlapping(ctx context.Context, theater string, start, end time.Time) ([]*entity.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE theater = $1 AND start_time < $3 AND end_time > $2
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, theater, start, end)
	if err != nil {
		r.log.Error("Failed to find overlapping showtimes",
			zap.Error(err),
			zap.String("theater", theater),
		)
		return nil, fmt.Errorf("find overlapping showtimes: %w", err)
	}
	defer rows.Close()

	var showtimes []*entity.Showtime
	for rows.Next() {
		showtime, err := scanShowtime(rows)
		if err != nil {
			r.log.Error("Failed to scan showtime row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan showtime: %w", err)
		}
		showtimes = append(showtimes, showtime)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return showtimes, nil
}

func (r *showtimeRepository) LockTheater(ctx context.Context, theater string) error {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, theater); err != nil {
		r.log.Error("Failed to lock theater", zap.Error(err), zap.String("theater", theater))
		return fmt.Errorf("lock theater %q: %w", theater, err)
	}
	return nil
}

func (r *showtimeRepository) Update(ctx context.Context, showtime *entity.Showtime) error {
	query := `
		UPDATE showtimes
		SET movie_id = $2, theater = $3, start_time = $4, end_time = $5,
		    price = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		showtime.ID,
		showtime.MovieID,
		showtime.Theater,
		showtime.StartTime,
		showtime.EndTime,
		showtime.Price,
	).Scan(&showtime.CreatedAt, &showtime.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		logFailure(r.log, "Failed to update showtime", err, zap.Int64("showtime_id", showtime.ID))
		return fmt.Errorf("failed to update showtime: %w", err)
	}

	return nil
}

func (r *showtimeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM showtimes WHERE id = $1`, id)
	if err != nil {
		logFailure(r.log, "Failed to delete showtime", err, zap.Int64("showtime_id", id))
		return fmt.Errorf("failed to delete showtime: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.log.Info("Showtime deleted", zap.Int64("showtime_id", id))
	return nil
}
