package request

type BookingRequest struct {
	ShowtimeID *int64 `json:"showtimeId" validate:"required"`
	SeatNumber *int   `json:"seatNumber" validate:"required,min=1,max=2147483647"`
	UserID     string `json:"userId" validate:"required"`
}
