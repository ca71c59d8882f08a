package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/internal/data/entity"
	"github.com/zoebbogner/popcorn-palace/internal/data/repository"
	"github.com/zoebbogner/popcorn-palace/internal/event"
	"github.com/zoebbogner/popcorn-palace/pkg/utils"
)

// memStore is an in-memory stand-in for the database. It enforces the same
// unique, foreign key and exclusion rules as the real schema.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	movies    map[int64]*entity.Movie
	showtimes map[int64]*entity.Showtime
	bookings  map[seatKey]*entity.Booking
	locks     []string

	// hooks, called without the lock held
	onExistsBySeat   func()
	onCreateBooking  func(b *entity.Booking) error
	onCreateShowtime func(s *entity.Showtime) error
	onCreateMovie    func(m *entity.Movie) error
}

type seatKey struct {
	showtimeID int64
	seat       int
}

func newMemStore() *memStore {
	return &memStore{
		movies:    make(map[int64]*entity.Movie),
		showtimes: make(map[int64]*entity.Showtime),
		bookings:  make(map[seatKey]*entity.Booking),
	}
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) repository() *repository.Repository {
	repo := &repository.Repository{
		Movie:    &memMovieRepo{s: s},
		Showtime: &memShowtimeRepo{s: s},
		Booking:  &memBookingRepo{s: s},
	}
	repo.Transactor = memTx{repo: repo}
	return repo
}

func (s *memStore) bookingCount(showtimeID int64, seat int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[seatKey{showtimeID, seat}]; ok {
		return 1
	}
	return 0
}

func (s *memStore) addMovie(title string) *entity.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &entity.Movie{Title: title, Genre: "Sci-Fi", Duration: 148, Rating: 8.8, ReleaseYear: 2010}
	m.ID = s.id()
	s.movies[m.ID] = m
	return m
}

func (s *memStore) addShowtime(movieID int64, theater string, start, end time.Time) *entity.Showtime {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &entity.Showtime{MovieID: movieID, Theater: theater, StartTime: start, EndTime: end, Price: 10}
	st.ID = s.id()
	s.showtimes[st.ID] = st
	return st
}

type memTx struct {
	repo *repository.Repository
}

func (m memTx) InTx(_ context.Context, _ pgx.TxOptions, fn func(repo *repository.Repository) error) error {
	return fn(m.repo)
}

// movies

type memMovieRepo struct{ s *memStore }

func (r *memMovieRepo) Create(ctx context.Context, movie *entity.Movie) error {
	if hook := r.s.onCreateMovie; hook != nil {
		if err := hook(movie); err != nil {
			return err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movies {
		if m.Title == movie.Title {
			return pgError(pgerrcode.UniqueViolation)
		}
	}
	movie.ID = r.s.id()
	cp := *movie
	r.s.movies[movie.ID] = &cp
	return nil
}

func (r *memMovieRepo) FindByID(ctx context.Context, id int64) (*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.movies[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *memMovieRepo) FindByTitle(ctx context.Context, title string) (*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movies {
		if m.Title == title {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMovieRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	m, err := r.FindByTitle(ctx, title)
	return m != nil, err
}

func (r *memMovieRepo) FindAll(ctx context.Context) ([]*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Movie, 0, len(r.s.movies))
	for _, m := range r.s.movies {
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memMovieRepo) Update(ctx context.Context, movie *entity.Movie) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movies[movie.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, m := range r.s.movies {
		if id != movie.ID && m.Title == movie.Title {
			return pgError(pgerrcode.UniqueViolation)
		}
	}
	cp := *movie
	r.s.movies[movie.ID] = &cp
	return nil
}

func (r *memMovieRepo) DeleteByTitle(ctx context.Context, title string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, m := range r.s.movies {
		if m.Title != title {
			continue
		}
		for _, st := range r.s.showtimes {
			if st.MovieID == id {
				return pgError(pgerrcode.ForeignKeyViolation)
			}
		}
		delete(r.s.movies, id)
		return nil
	}
	return repository.ErrNotFound
}

// showtimes

type memShowtimeRepo struct{ s *memStore }

func (r *memShowtimeRepo) overlapsLocked(st *entity.Showtime) bool {
	for id, other := range r.s.showtimes {
		if id != st.ID && other.Theater == st.Theater && other.Overlaps(st.StartTime, st.EndTime) {
			return true
		}
	}
	return false
}

func (r *memShowtimeRepo) Create(ctx context.Context, showtime *entity.Showtime) error {
	if hook := r.s.onCreateShowtime; hook != nil {
		if err := hook(showtime); err != nil {
			return err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movies[showtime.MovieID]; !ok {
		return pgError(pgerrcode.ForeignKeyViolation)
	}
	if r.overlapsLocked(showtime) {
		return pgError(pgerrcode.ExclusionViolation)
	}
	showtime.ID = r.s.id()
	cp := *showtime
	r.s.showtimes[showtime.ID] = &cp
	return nil
}

func (r *memShowtimeRepo) FindByID(ctx context.Context, id int64) (*entity.Showtime, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st, ok := r.s.showtimes[id]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, nil
}

func (r *memShowtimeRepo) FindOverlapping(ctx context.Context, theater string, start, end time.Time) ([]*entity.Showtime, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Showtime
	for _, st := range r.s.showtimes {
		if st.Theater == theater && st.Overlaps(start, end) {
			cp := *st
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memShowtimeRepo) LockTheater(ctx context.Context, theater string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.locks = append(r.s.locks, theater)
	return nil
}

func (r *memShowtimeRepo) Update(ctx context.Context, showtime *entity.Showtime) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.showtimes[showtime.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.overlapsLocked(showtime) {
		return pgError(pgerrcode.ExclusionViolation)
	}
	cp := *showtime
	r.s.showtimes[showtime.ID] = &cp
	return nil
}

func (r *memShowtimeRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.showtimes[id]; !ok {
		return repository.ErrNotFound
	}
	for key := range r.s.bookings {
		if key.showtimeID == id {
			return pgError(pgerrcode.ForeignKeyViolation)
		}
	}
	delete(r.s.showtimes, id)
	return nil
}

// bookings

type memBookingRepo struct{ s *memStore }

func (r *memBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	if hook := r.s.onCreateBooking; hook != nil {
		if err := hook(booking); err != nil {
			return err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.showtimes[booking.ShowtimeID]; !ok {
		return pgError(pgerrcode.ForeignKeyViolation)
	}
	key := seatKey{booking.ShowtimeID, booking.SeatNumber}
	if _, ok := r.s.bookings[key]; ok {
		return pgError(pgerrcode.UniqueViolation)
	}
	booking.ID = r.s.id()
	cp := *booking
	r.s.bookings[key] = &cp
	return nil
}

func (r *memBookingRepo) ExistsBySeat(ctx context.Context, showtimeID int64, seatNumber int) (bool, error) {
	if hook := r.s.onExistsBySeat; hook != nil {
		hook()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.bookings[seatKey{showtimeID, seatNumber}]
	return ok, nil
}

// events

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, evt := range p.events {
		out[i] = evt.EventName()
	}
	return out
}

func testConfig() *utils.Config {
	return &utils.Config{
		Booking: utils.BookingConfig{
			MaxRetries:    2,
			RetryInterval: time.Millisecond,
		},
	}
}

type fixture struct {
	store   *memStore
	events  *recordingPublisher
	service *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	events := &recordingPublisher{}
	return &fixture{
		store:   store,
		events:  events,
		service: NewService(store.repository(), events, testConfig(), zap.NewNop()),
	}
}

func ptr[T any](v T) *T {
	return &v
}
