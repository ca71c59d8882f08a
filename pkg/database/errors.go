package database

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLState returns the PostgreSQL error code carried by err, or "" when
// err does not wrap a *pgconn.PgError.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// ConstraintName returns the violated constraint, if any.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	return SQLState(err) == pgerrcode.UniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return SQLState(err) == pgerrcode.ForeignKeyViolation
}

func IsExclusionViolation(err error) bool {
	return SQLState(err) == pgerrcode.ExclusionViolation
}

// IsSerializationFailure reports conflicts that are safe to retry: a
// serializable transaction that lost a race, or a detected deadlock.
func IsSerializationFailure(err error) bool {
	switch SQLState(err) {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return true
	}
	return false
}

// IsTimeout reports a cancelled or expired context, however deep pgx
// wrapped it. Such an error says nothing about the data.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		pgconn.Timeout(err)
}
