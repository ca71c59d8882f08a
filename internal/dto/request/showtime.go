package request

import (
	"time"
)

type ShowtimeRequest struct {
	MovieID   *int64     `json:"movieId" validate:"required"`
	Theater   string     `json:"theater" validate:"required,notblank,max=255"`
	StartTime *time.Time `json:"startTime" validate:"required,future"`
	EndTime   *time.Time `json:"endTime" validate:"required,future"`
	Price     *float64   `json:"price" validate:"required,min=0"`
}
