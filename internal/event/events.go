package event

import (
	"time"
)

// Topics. The topic name doubles as the event name.
const (
	TopicMovieAdded          = "movie.added"
	TopicMovieUpdated        = "movie.updated"
	TopicMovieDeleted        = "movie.deleted"
	TopicShowtimeScheduled   = "showtime.scheduled"
	TopicShowtimeRescheduled = "showtime.rescheduled"
	TopicShowtimeCancelled   = "showtime.cancelled"
	TopicBookingCreated      = "booking.created"
)

// Topics lists every topic the audit consumer subscribes to.
var Topics = []string{
	TopicMovieAdded,
	TopicMovieUpdated,
	TopicMovieDeleted,
	TopicShowtimeScheduled,
	TopicShowtimeRescheduled,
	TopicShowtimeCancelled,
	TopicBookingCreated,
}

type Event interface {
	EventName() string
}

type Header struct {
	OccurredAt time.Time `json:"occurredAt"`
}

func NewHeader() Header {
	return Header{OccurredAt: time.Now().UTC()}
}

type MovieAdded struct {
	Header      Header  `json:"header"`
	MovieID     int64   `json:"movieId"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Duration    int     `json:"duration"`
	Rating      float64 `json:"rating"`
	ReleaseYear int     `json:"releaseYear"`
}

func (MovieAdded) EventName() string { return TopicMovieAdded }

type MovieUpdated struct {
	Header      Header  `json:"header"`
	MovieID     int64   `json:"movieId"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Duration    int     `json:"duration"`
	Rating      float64 `json:"rating"`
	ReleaseYear int     `json:"releaseYear"`
}

func (MovieUpdated) EventName() string { return TopicMovieUpdated }

type MovieDeleted struct {
	Header Header `json:"header"`
	Title  string `json:"title"`
}

func (MovieDeleted) EventName() string { return TopicMovieDeleted }

type ShowtimeScheduled struct {
	Header     Header    `json:"header"`
	ShowtimeID int64     `json:"showtimeId"`
	MovieID    int64     `json:"movieId"`
	Theater    string    `json:"theater"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Price      float64   `json:"price"`
}

func (ShowtimeScheduled) EventName() string { return TopicShowtimeScheduled }

type ShowtimeRescheduled struct {
	Header     Header    `json:"header"`
	ShowtimeID int64     `json:"showtimeId"`
	MovieID    int64     `json:"movieId"`
	Theater    string    `json:"theater"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Price      float64   `json:"price"`
}

func (ShowtimeRescheduled) EventName() string { return TopicShowtimeRescheduled }

type ShowtimeCancelled struct {
	Header     Header `json:"header"`
	ShowtimeID int64  `json:"showtimeId"`
}

func (ShowtimeCancelled) EventName() string { return TopicShowtimeCancelled }

type BookingCreated struct {
	Header     Header `json:"header"`
	BookingID  int64  `json:"bookingId"`
	ShowtimeID int64  `json:"showtimeId"`
	SeatNumber int    `json:"seatNumber"`
	UserID     string `json:"userId"`
}

func (BookingCreated) EventName() string { return TopicBookingCreated }
