package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoebbogner/popcorn-palace/internal/data/entity"
	"github.com/zoebbogner/popcorn-palace/internal/dto/request"
	"github.com/zoebbogner/popcorn-palace/internal/event"
)

func movieRequest(title string) *request.MovieRequest {
	return &request.MovieRequest{
		Title:       title,
		Genre:       "Sci-Fi",
		Duration:    ptr(148),
		Rating:      ptr(8.8),
		ReleaseYear: ptr(2010),
	}
}

func TestMovieRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Movie.AddMovie(ctx, movieRequest("Inception"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	movies, err := f.service.Movie.GetAllMovies(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, *created, movies[0])

	update := movieRequest("Inception")
	update.Genre = "Thriller"
	update.Rating = ptr(9.1)
	updated, err := f.service.Movie.UpdateMovie(ctx, "Inception", update)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Thriller", updated.Genre)

	movies, err = f.service.Movie.GetAllMovies(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Thriller", movies[0].Genre)
	assert.Equal(t, 9.1, movies[0].Rating)

	require.NoError(t, f.service.Movie.DeleteMovie(ctx, "Inception"))

	movies, err = f.service.Movie.GetAllMovies(ctx)
	require.NoError(t, err)
	assert.Empty(t, movies)

	assert.Equal(t, []string{
		event.TopicMovieAdded,
		event.TopicMovieUpdated,
		event.TopicMovieDeleted,
	}, f.events.names())
}

func TestAddMovie_AlreadyExists(t *testing.T) {
	f := newFixture(t)
	f.store.addMovie("Inception")

	_, err := f.service.Movie.AddMovie(context.Background(), movieRequest("Inception"))
	assert.ErrorIs(t, err, ErrMovieAlreadyExists)
	assert.Contains(t, err.Error(), "Movie with title 'Inception' already exists")
}

func TestAddMovie_UniqueViolationIsAlreadyExists(t *testing.T) {
	f := newFixture(t)
	f.store.onCreateMovie = func(*entity.Movie) error {
		return pgError(pgerrcode.UniqueViolation)
	}

	_, err := f.service.Movie.AddMovie(context.Background(), movieRequest("Inception"))
	assert.ErrorIs(t, err, ErrMovieAlreadyExists)
}

func TestAddMovie_Validation(t *testing.T) {
	f := newFixture(t)

	req := movieRequest("")
	req.Duration = ptr(0)
	req.Rating = nil
	req.ReleaseYear = ptr(1800)

	_, err := f.service.Movie.AddMovie(context.Background(), req)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, []string{"duration", "rating", "releaseYear", "title"}, sortedKeys(validationErr.Fields))
}

func TestAddMovie_BlankStrings(t *testing.T) {
	f := newFixture(t)

	req := movieRequest("   ")
	req.Genre = "\t"
	_, err := f.service.Movie.AddMovie(context.Background(), req)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, map[string]string{
		"title": "Title is required",
		"genre": "Genre is required",
	}, validationErr.Fields)

	movies, err := f.service.Movie.GetAllMovies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestAddMovie_IntegerBounds(t *testing.T) {
	f := newFixture(t)

	req := movieRequest("Inception")
	req.Duration = ptr(3000000000)
	req.ReleaseYear = ptr(3000000000)
	_, err := f.service.Movie.AddMovie(context.Background(), req)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, []string{"duration", "releaseYear"}, sortedKeys(validationErr.Fields))
	assert.Equal(t, "Release year must be at most 2147483647", validationErr.Fields["releaseYear"])
}

func TestUpdateMovie_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Movie.UpdateMovie(context.Background(), "Missing", movieRequest("Missing"))
	assert.ErrorIs(t, err, ErrMovieNotFound)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUpdateMovie_KeepsTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.addMovie("Inception")
	f.store.addMovie("Tenet")

	// a body naming another movie neither clashes nor renames
	updated, err := f.service.Movie.UpdateMovie(ctx, "Inception", movieRequest("Tenet"))
	require.NoError(t, err)
	assert.Equal(t, "Inception", updated.Title)

	updated, err = f.service.Movie.UpdateMovie(ctx, "Inception", movieRequest("Other"))
	require.NoError(t, err)
	assert.Equal(t, "Inception", updated.Title)

	movies, err := f.service.Movie.GetAllMovies(ctx)
	require.NoError(t, err)
	titles := make([]string, 0, len(movies))
	for _, m := range movies {
		titles = append(titles, m.Title)
	}
	assert.Equal(t, []string{"Inception", "Tenet"}, titles)

	require.NoError(t, f.service.Movie.DeleteMovie(ctx, "Inception"))
}

func TestDeleteMovie(t *testing.T) {
	f := newFixture(t)

	err := f.service.Movie.DeleteMovie(context.Background(), "Missing")
	assert.ErrorIs(t, err, ErrMovieNotFound)

	movie := f.store.addMovie("Inception")
	start := time.Now().Add(time.Hour)
	f.store.addShowtime(movie.ID, "Theater 1", start, start.Add(time.Hour))

	err = f.service.Movie.DeleteMovie(context.Background(), "Inception")
	assert.ErrorIs(t, err, ErrMovieHasShowtimes)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestGetAllMovies_OrderedByID(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"C", "A", "B"} {
		f.store.addMovie(title)
	}

	movies, err := f.service.Movie.GetAllMovies(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, "C", movies[0].Title)
	assert.Equal(t, "B", movies[2].Title)
}
