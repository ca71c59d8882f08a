package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`CREATE TABLE IF NOT EXISTS movies (
		id           BIGSERIAL PRIMARY KEY,
		title        TEXT NOT NULL,
		genre        TEXT NOT NULL,
		duration     INTEGER NOT NULL CHECK (duration >= 1),
		rating       DOUBLE PRECISION NOT NULL CHECK (rating >= 0),
		release_year INTEGER NOT NULL CHECK (release_year >= 1888),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT movies_title_key UNIQUE (title)
	)`,
	`CREATE TABLE IF NOT EXISTS showtimes (
		id         BIGSERIAL PRIMARY KEY,
		movie_id   BIGINT NOT NULL,
		theater    TEXT NOT NULL,
		start_time TIMESTAMPTZ NOT NULL,
		end_time   TIMESTAMPTZ NOT NULL,
		price      DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT showtimes_movie_id_fkey FOREIGN KEY (movie_id) REFERENCES movies (id) ON DELETE RESTRICT,
		CONSTRAINT showtimes_interval_check CHECK (end_time > start_time),
		CONSTRAINT showtimes_no_overlap EXCLUDE USING gist (
			theater WITH =,
			tstzrange(start_time, end_time, '[)') WITH &&
		)
	)`,
	`CREATE INDEX IF NOT EXISTS showtimes_movie_id_idx ON showtimes (movie_id)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id          BIGSERIAL PRIMARY KEY,
		showtime_id BIGINT NOT NULL,
		seat_number INTEGER NOT NULL CHECK (seat_number >= 1),
		user_id     TEXT NOT NULL CHECK (user_id <> ''),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT bookings_showtime_id_fkey FOREIGN KEY (showtime_id) REFERENCES showtimes (id) ON DELETE RESTRICT,
		CONSTRAINT bookings_showtime_seat_key UNIQUE (showtime_id, seat_number)
	)`,
}

// CreateDatabaseSchema applies the idempotent schema. The exclusion and
// unique constraints are the last line of defence for the scheduling and
// booking invariants.
func CreateDatabaseSchema(ctx context.Context, db Querier) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
