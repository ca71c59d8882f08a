package request

// MovieRequest is the body of both add and update. Numeric fields are
// pointers so a missing value fails "required" instead of reading as zero.
type MovieRequest struct {
	Title       string   `json:"title" validate:"required,notblank,max=255"`
	Genre       string   `json:"genre" validate:"required,notblank,max=255"`
	Duration    *int     `json:"duration" validate:"required,min=1,max=2147483647"`
	Rating      *float64 `json:"rating" validate:"required,min=0"`
	ReleaseYear *int     `json:"releaseYear" validate:"required,min=1888,max=2147483647"`
}
