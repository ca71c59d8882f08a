package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/internal/data/entity"
	"github.com/zoebbogner/popcorn-palace/internal/data/repository"
	"github.com/zoebbogner/popcorn-palace/internal/dto/request"
	"github.com/zoebbogner/popcorn-palace/internal/dto/response"
	"github.com/zoebbogner/popcorn-palace/internal/event"
	"github.com/zoebbogner/popcorn-palace/pkg/database"
)

type ShowtimeService interface {
	GetShowtime(ctx context.Context, id int64) (*response.ShowtimeResponse, error)
	AddShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error)
	UpdateShowtime(ctx context.Context, id int64, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error)
	DeleteShowtime(ctx context.Context, id int64) error
}

type showtimeService struct {
	repo   *repository.Repository
	events event.Publisher
	log    *zap.Logger
}

func NewShowtimeService(
	repo *repository.Repository,
	events event.Publisher,
	log *zap.Logger,
) ShowtimeService {
	return &showtimeService{
		repo:   repo,
		events: events,
		log:    log.With(zap.String("service", "showtime")),
	}
}

func (s *showtimeService) GetShowtime(ctx context.Context, id int64) (*response.ShowtimeResponse, error) {
	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get showtime: %w", err)
	}
	if showtime == nil {
		return nil, ShowtimeNotFound(id)
	}

	resp := response.ShowtimeToResponse(showtime)
	return &resp, nil
}

func (s *showtimeService) AddShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	showtime := showtimeFromRequest(req)
	err := s.repo.InTx(ctx, pgx.TxOptions{}, func(tx *repository.Repository) error {
		if err := s.checkSchedule(ctx, tx, showtime); err != nil {
			return err
		}
		return tx.Showtime.Create(ctx, showtime)
	})
	if err != nil {
		return nil, s.translate(err, showtime, "add showtime")
	}

	s.log.Info("Showtime scheduled",
		zap.Int64("showtime_id", showtime.ID),
		zap.Int64("movie_id", showtime.MovieID),
		zap.String("theater", showtime.Theater),
		zap.Time("start_time", showtime.StartTime),
		zap.Time("end_time", showtime.EndTime),
	)

	publish(ctx, s.events, s.log, event.ShowtimeScheduled{
		Header:     event.NewHeader(),
		ShowtimeID: showtime.ID,
		MovieID:    showtime.MovieID,
		Theater:    showtime.Theater,
		StartTime:  showtime.StartTime,
		EndTime:    showtime.EndTime,
		Price:      showtime.Price,
	})

	resp := response.ShowtimeToResponse(showtime)
	return &resp, nil
}

func (s *showtimeService) UpdateShowtime(ctx context.Context, id int64, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	showtime := showtimeFromRequest(req)
	showtime.ID = id

	err := s.repo.InTx(ctx, pgx.TxOptions{}, func(tx *repository.Repository) error {
		existing, err := tx.Showtime.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ShowtimeNotFound(id)
		}

		if err := s.checkSchedule(ctx, tx, showtime); err != nil {
			return err
		}

		if err := tx.Showtime.Update(ctx, showtime); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ShowtimeNotFound(id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.translate(err, showtime, "update showtime")
	}

	s.log.Info("Showtime rescheduled",
		zap.Int64("showtime_id", showtime.ID),
		zap.String("theater", showtime.Theater),
		zap.Time("start_time", showtime.StartTime),
		zap.Time("end_time", showtime.EndTime),
	)

	publish(ctx, s.events, s.log, event.ShowtimeRescheduled{
		Header:     event.NewHeader(),
		ShowtimeID: showtime.ID,
		MovieID:    showtime.MovieID,
		Theater:    showtime.Theater,
		StartTime:  showtime.StartTime,
		EndTime:    showtime.EndTime,
		Price:      showtime.Price,
	})

	resp := response.ShowtimeToResponse(showtime)
	return &resp, nil
}

func (s *showtimeService) DeleteShowtime(ctx context.Context, id int64) error {
	if err := s.repo.Showtime.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ShowtimeNotFound(id)
		case database.IsForeignKeyViolation(err):
			return ShowtimeHasBookings(id)
		}
		return fmt.Errorf("delete showtime: %w", err)
	}

	publish(ctx, s.events, s.log, event.ShowtimeCancelled{
		Header:     event.NewHeader(),
		ShowtimeID: id,
	})
	return nil
}

// checkSchedule enforces, in order: the movie exists, the window is not
// empty, and no other showtime in the theater intersects it. The theater
// lock is held until tx ends, so the check and the write are atomic
// against other schedulers.
func (s *showtimeService) checkSchedule(ctx context.Context, tx *repository.Repository, showtime *entity.Showtime) error {
	movie, err := tx.Movie.FindByID(ctx, showtime.MovieID)
	if err != nil {
		return err
	}
	if movie == nil {
		return MovieNotFoundByID(showtime.MovieID)
	}

	if !showtime.EndTime.After(showtime.StartTime) {
		return InvalidInterval()
	}

	if err := tx.Showtime.LockTheater(ctx, showtime.Theater); err != nil {
		return err
	}

	overlapping, err := tx.Showtime.FindOverlapping(ctx, showtime.Theater, showtime.StartTime, showtime.EndTime)
	if err != nil {
		return err
	}
	for _, other := range overlapping {
		if other.ID == showtime.ID || !other.Overlaps(showtime.StartTime, showtime.EndTime) {
			continue
		}
		s.log.Debug("Showtime window taken",
			zap.String("theater", showtime.Theater),
			zap.Int64("conflicting_showtime_id", other.ID),
		)
		return OverlappingShowtime(showtime.Theater, showtime.StartTime, showtime.EndTime)
	}

	return nil
}

func (s *showtimeService) translate(err error, showtime *entity.Showtime, op string) error {
	var domainErr *Error
	switch {
	case errors.As(err, &domainErr):
		return err
	case database.IsExclusionViolation(err):
		return OverlappingShowtime(showtime.Theater, showtime.StartTime, showtime.EndTime)
	case database.IsForeignKeyViolation(err):
		return MovieNotFoundByID(showtime.MovieID)
	case database.IsTimeout(err):
		return ServiceUnavailable(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Postgres keeps microseconds; truncating here makes the response match
// what a later read returns.
func showtimeFromRequest(req *request.ShowtimeRequest) *entity.Showtime {
	return &entity.Showtime{
		MovieID:   *req.MovieID,
		Theater:   req.Theater,
		StartTime: req.StartTime.Truncate(time.Microsecond),
		EndTime:   req.EndTime.Truncate(time.Microsecond),
		Price:     *req.Price,
	}
}
