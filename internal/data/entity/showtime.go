package entity

import (
	"time"
)

// Showtime occupies its theater over the half-open window [StartTime, EndTime).
type Showtime struct {
	Base
	MovieID   int64     `db:"movie_id"`
	Theater   string    `db:"theater"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	Price     float64   `db:"price"`
}

// Overlaps reports whether the two windows intersect. Touching endpoints
// do not overlap.
func (s *Showtime) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && s.EndTime.After(start)
}
