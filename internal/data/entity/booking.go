package entity

type Booking struct {
	BaseSimple
	ShowtimeID int64  `db:"showtime_id"`
	SeatNumber int    `db:"seat_number"`
	UserID     string `db:"user_id"`
}
