package wire

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/internal/data/repository"
	"github.com/zoebbogner/popcorn-palace/internal/event"
	"github.com/zoebbogner/popcorn-palace/pkg/database"
	"github.com/zoebbogner/popcorn-palace/pkg/utils"
)

var (
	poolOnce sync.Once
	pool     *pgxpool.Pool
	poolErr  error
)

// testDB connects to POSTGRES_URL once per test binary and applies the
// schema. Tests are skipped when the variable is unset.
func testDB(t *testing.T) database.PgxIface {
	t.Helper()

	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL not set")
	}

	poolOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, poolErr = pgxpool.New(ctx, url)
		if poolErr != nil {
			return
		}
		poolErr = database.CreateDatabaseSchema(ctx, pool)
	})
	require.NoError(t, poolErr)

	return database.NewFromPool(pool)
}

func newApp(t *testing.T) http.Handler {
	db := testDB(t)
	log := zap.NewNop()

	config := &utils.Config{
		App:     utils.AppConfig{RequestTimeout: 10 * time.Second},
		Booking: utils.BookingConfig{MaxRetries: 5, RetryInterval: 5 * time.Millisecond},
	}
	app := Wiring(repository.NewRepository(db, log), db, event.NopPublisher{}, config, log)
	return app.Router
}

func do(t *testing.T, h http.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec.Code, decoded
}

func addMovie(t *testing.T, h http.Handler) (string, int64) {
	t.Helper()

	title := "Movie " + uuid.NewString()
	code, body := do(t, h, http.MethodPost, "/movies",
		fmt.Sprintf(`{"title":%q,"genre":"Drama","duration":120,"rating":8.1,"releaseYear":2010}`, title))
	require.Equal(t, http.StatusOK, code, body)
	return title, int64(body["id"].(float64))
}

func showtimeBody(movieID int64, theater string, start time.Time, length time.Duration) string {
	return fmt.Sprintf(`{"movieId":%d,"theater":%q,"startTime":%q,"endTime":%q,"price":25.5}`,
		movieID, theater,
		start.UTC().Format(time.RFC3339), start.Add(length).UTC().Format(time.RFC3339))
}

func TestIntegration_BookingRace(t *testing.T) {
	h := newApp(t)
	_, movieID := addMovie(t, h)

	theater := "Hall " + uuid.NewString()
	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	code, body := do(t, h, http.MethodPost, "/showtimes", showtimeBody(movieID, theater, start, 2*time.Hour))
	require.Equal(t, http.StatusCreated, code, body)
	showtimeID := int64(body["id"].(float64))

	const callers = 20
	codes := make(chan int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, _ := do(t, h, http.MethodPost, "/bookings",
				fmt.Sprintf(`{"showtimeId":%d,"seatNumber":7,"userId":"user-%d"}`, showtimeID, i))
			codes <- code
		}()
	}
	wg.Wait()
	close(codes)

	counts := map[int]int{}
	for code := range codes {
		counts[code]++
	}
	assert.Equal(t, map[int]int{http.StatusCreated: 1, http.StatusConflict: callers - 1}, counts)

	code, body = do(t, h, http.MethodDelete, fmt.Sprintf("/showtimes/%d", showtimeID), "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Showtime Has Bookings", body["error"])
}

func TestIntegration_ConcurrentScheduling(t *testing.T) {
	h := newApp(t)
	_, movieID := addMovie(t, h)

	theater := "Hall " + uuid.NewString()
	base := time.Now().Add(72 * time.Hour).Truncate(time.Minute)

	const callers = 10
	codes := make(chan int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			// every window overlaps every other one
			start := base.Add(time.Duration(i) * time.Minute)
			code, _ := do(t, h, http.MethodPost, "/showtimes", showtimeBody(movieID, theater, start, time.Hour))
			codes <- code
		}()
	}
	wg.Wait()
	close(codes)

	counts := map[int]int{}
	for code := range codes {
		counts[code]++
	}
	assert.Equal(t, map[int]int{http.StatusCreated: 1, http.StatusConflict: callers - 1}, counts)

	// back to back with the survivor is allowed
	code, body := do(t, h, http.MethodPost, "/showtimes",
		showtimeBody(movieID, theater, base.Add(2*time.Hour), time.Hour))
	assert.Equal(t, http.StatusCreated, code, body)
}

func TestIntegration_MovieLifecycle(t *testing.T) {
	h := newApp(t)
	title, movieID := addMovie(t, h)

	code, body := do(t, h, http.MethodPost, "/movies",
		fmt.Sprintf(`{"title":%q,"genre":"Drama","duration":90,"rating":5,"releaseYear":2001}`, title))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Movie Already Exists", body["error"])

	code, body = do(t, h, http.MethodPost, "/movies/update/"+urlPath(title),
		fmt.Sprintf(`{"title":%q,"genre":"Sci-Fi","duration":148,"rating":8.8,"releaseYear":2010}`, title))
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Sci-Fi", body["genre"])
	assert.EqualValues(t, movieID, body["id"])

	theater := "Hall " + uuid.NewString()
	code, _ = do(t, h, http.MethodPost, "/showtimes",
		showtimeBody(movieID, theater, time.Now().Add(24*time.Hour), time.Hour))
	require.Equal(t, http.StatusCreated, code)

	code, body = do(t, h, http.MethodDelete, "/movies/"+urlPath(title), "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Movie Has Showtimes", body["error"])

	code, _ = do(t, h, http.MethodDelete, "/movies/"+urlPath("Missing "+uuid.NewString()), "")
	assert.Equal(t, http.StatusNotFound, code)
}

func urlPath(s string) string {
	return strings.ReplaceAll(s, " ", "%20")
}
