package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/internal/data/entity"
	"github.com/zoebbogner/popcorn-palace/internal/data/repository"
	"github.com/zoebbogner/popcorn-palace/internal/dto/request"
	"github.com/zoebbogner/popcorn-palace/internal/dto/response"
	"github.com/zoebbogner/popcorn-palace/internal/event"
	"github.com/zoebbogner/popcorn-palace/pkg/database"
)

type MovieService interface {
	GetAllMovies(ctx context.Context) ([]response.MovieResponse, error)
	AddMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, title string, req *request.MovieRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, title string) error
}

type movieService struct {
	repo   *repository.Repository
	events event.Publisher
	log    *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	events event.Publisher,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo:   repo,
		events: events,
		log:    log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetAllMovies(ctx context.Context) ([]response.MovieResponse, error) {
	movies, err := s.repo.Movie.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}

	s.log.Debug("Movies retrieved", zap.Int("count", len(movies)))
	return response.MoviesToResponse(movies), nil
}

func (s *movieService) AddMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Movie.ExistsByTitle(ctx, req.Title)
	if err != nil {
		return nil, fmt.Errorf("check title: %w", err)
	}
	if exists {
		return nil, MovieAlreadyExists(req.Title)
	}

	movie := &entity.Movie{
		Title:       req.Title,
		Genre:       req.Genre,
		Duration:    *req.Duration,
		Rating:      *req.Rating,
		ReleaseYear: *req.ReleaseYear,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, MovieAlreadyExists(req.Title)
		}
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.Int64("movie_id", movie.ID),
		zap.String("title", movie.Title),
	)

	publish(ctx, s.events, s.log, event.MovieAdded{
		Header:      event.NewHeader(),
		MovieID:     movie.ID,
		Title:       movie.Title,
		Genre:       movie.Genre,
		Duration:    movie.Duration,
		Rating:      movie.Rating,
		ReleaseYear: movie.ReleaseYear,
	})

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

// UpdateMovie replaces the attributes of the movie titled title. The title
// is the key and never changes; a different title in the body is ignored.
func (s *movieService) UpdateMovie(ctx context.Context, title string, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	movie, err := s.repo.Movie.FindByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, MovieNotFound(title)
	}

	movie.Genre = req.Genre
	movie.Duration = *req.Duration
	movie.Rating = *req.Rating
	movie.ReleaseYear = *req.ReleaseYear

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, MovieNotFound(title)
		}
		return nil, fmt.Errorf("update movie: %w", err)
	}

	s.log.Info("Movie updated",
		zap.Int64("movie_id", movie.ID),
		zap.String("title", movie.Title),
	)

	publish(ctx, s.events, s.log, event.MovieUpdated{
		Header:      event.NewHeader(),
		MovieID:     movie.ID,
		Title:       movie.Title,
		Genre:       movie.Genre,
		Duration:    movie.Duration,
		Rating:      movie.Rating,
		ReleaseYear: movie.ReleaseYear,
	})

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, title string) error {
	if err := s.repo.Movie.DeleteByTitle(ctx, title); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return MovieNotFound(title)
		case database.IsForeignKeyViolation(err):
			return MovieHasShowtimes(title)
		}
		return fmt.Errorf("delete movie: %w", err)
	}

	publish(ctx, s.events, s.log, event.MovieDeleted{
		Header: event.NewHeader(),
		Title:  title,
	})
	return nil
}
