package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/zoebbogner/popcorn-palace/pkg/utils"
)

// Kind classifies a domain error. Only the HTTP layer turns it into a
// status code.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindNotFound
	KindConflict
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	default:
		return "internal"
	}
}

// Error is a typed domain outcome. Two errors match under errors.Is when
// their labels are equal, so the Err* sentinels below work as targets.
type Error struct {
	Kind    Kind
	Label   string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Label
	}
	return e.Label + ": " + e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Label == e.Label
}

var (
	ErrMovieNotFound       = &Error{Kind: KindNotFound, Label: "Movie Not Found"}
	ErrShowtimeNotFound    = &Error{Kind: KindNotFound, Label: "Showtime Not Found"}
	ErrMovieAlreadyExists  = &Error{Kind: KindConflict, Label: "Movie Already Exists"}
	ErrOverlappingShowtime = &Error{Kind: KindConflict, Label: "Overlapping Showtime"}
	ErrSeatAlreadyBooked   = &Error{Kind: KindConflict, Label: "Seat Already Booked"}
	ErrMovieHasShowtimes   = &Error{Kind: KindConflict, Label: "Movie Has Showtimes"}
	ErrShowtimeHasBookings = &Error{Kind: KindConflict, Label: "Showtime Has Bookings"}
	ErrInvalidInterval     = &Error{Kind: KindInvalidArgument, Label: "Invalid Argument"}
	ErrServiceUnavailable  = &Error{Kind: KindTransient, Label: "Service Unavailable"}
)

func withMessage(sentinel *Error, format string, args ...any) *Error {
	return &Error{Kind: sentinel.Kind, Label: sentinel.Label, Message: fmt.Sprintf(format, args...)}
}

const windowLayout = "2006-01-02 15:04"

func MovieNotFound(title string) error {
	return withMessage(ErrMovieNotFound, "Movie with title '%s' not found", title)
}

func MovieNotFoundByID(id int64) error {
	return withMessage(ErrMovieNotFound, "Movie with ID %d not found", id)
}

func MovieAlreadyExists(title string) error {
	return withMessage(ErrMovieAlreadyExists, "Movie with title '%s' already exists", title)
}

func MovieHasShowtimes(title string) error {
	return withMessage(ErrMovieHasShowtimes, "Movie with title '%s' still has scheduled showtimes", title)
}

func ShowtimeNotFound(id int64) error {
	return withMessage(ErrShowtimeNotFound, "Showtime with ID %d not found", id)
}

func ShowtimeHasBookings(id int64) error {
	return withMessage(ErrShowtimeHasBookings, "Showtime with ID %d still has bookings", id)
}

func OverlappingShowtime(theater string, start, end time.Time) error {
	return withMessage(ErrOverlappingShowtime, "There is already a showtime in theater '%s' between %s and %s",
		theater, start.UTC().Format(windowLayout), end.UTC().Format(windowLayout))
}

func SeatAlreadyBooked(showtimeID int64, seatNumber int) error {
	return withMessage(ErrSeatAlreadyBooked, "Seat %d is already booked for showtime %d", seatNumber, showtimeID)
}

func InvalidInterval() error {
	return withMessage(ErrInvalidInterval, "End time must be after start time")
}

func ServiceUnavailable(cause error) error {
	return fmt.Errorf("%w: %w",
		withMessage(ErrServiceUnavailable, "The request could not be completed, please retry"), cause)
}

// ValidationError carries per-field messages keyed by json field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// KindOf reports the kind of the first domain error in err's chain.
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}
