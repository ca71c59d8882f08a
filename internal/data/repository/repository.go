package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/pkg/database"
)

// Transactor runs fn with repositories bound to a single transaction.
// Inside fn, a nested InTx reuses the open transaction.
type Transactor interface {
	InTx(ctx context.Context, opts pgx.TxOptions, fn func(repo *Repository) error) error
}

type Repository struct {
	Movie    MovieRepository
	Showtime ShowtimeRepository
	Booking  BookingRepository
	Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepository(db, log)
	repo.Transactor = &pgTransactor{db: db, log: log}
	return repo
}

func newRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Movie:    NewMovieRepository(q, log),
		Showtime: NewShowtimeRepository(q, log),
		Booking:  NewBookingRepository(q, log),
	}
}

type pgTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgTransactor) InTx(ctx context.Context, opts pgx.TxOptions, fn func(repo *Repository) error) error {
	return database.RunInTx(ctx, t.db, opts, func(tx pgx.Tx) error {
		txRepo := newRepository(tx, t.log)
		txRepo.Transactor = joinedTx{repo: txRepo}
		return fn(txRepo)
	})
}

type joinedTx struct {
	repo *Repository
}

func (j joinedTx) InTx(_ context.Context, _ pgx.TxOptions, fn func(repo *Repository) error) error {
	return fn(j.repo)
}
