package response

type BookingResponse struct {
	BookingID int64 `json:"bookingId"`
}
