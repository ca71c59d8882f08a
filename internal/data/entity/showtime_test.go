package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShowtimeOverlaps(t *testing.T) {
	start := time.Date(2030, 1, 1, 18, 0, 0, 0, time.UTC)
	showtime := &Showtime{StartTime: start, EndTime: start.Add(2 * time.Hour)}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"same window", start, start.Add(2 * time.Hour), true},
		{"inside", start.Add(30 * time.Minute), start.Add(time.Hour), true},
		{"covers", start.Add(-time.Hour), start.Add(3 * time.Hour), true},
		{"starts during", start.Add(time.Hour), start.Add(3 * time.Hour), true},
		{"ends during", start.Add(-time.Hour), start.Add(time.Minute), true},
		{"ends at start", start.Add(-time.Hour), start, false},
		{"starts at end", start.Add(2 * time.Hour), start.Add(3 * time.Hour), false},
		{"later", start.Add(5 * time.Hour), start.Add(6 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, showtime.Overlaps(tt.start, tt.end))
		})
	}
}
