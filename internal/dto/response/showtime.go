package response

import (
	"time"

	"github.com/zoebbogner/popcorn-palace/internal/data/entity"
)

type ShowtimeResponse struct {
	ID        int64     `json:"id"`
	Price     float64   `json:"price"`
	MovieID   int64     `json:"movieId"`
	Theater   string    `json:"theater"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

func ShowtimeToResponse(showtime *entity.Showtime) ShowtimeResponse {
	return ShowtimeResponse{
		ID:        showtime.ID,
		Price:     showtime.Price,
		MovieID:   showtime.MovieID,
		Theater:   showtime.Theater,
		StartTime: showtime.StartTime.UTC(),
		EndTime:   showtime.EndTime.UTC(),
	}
}
