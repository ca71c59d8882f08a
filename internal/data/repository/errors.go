package repository

import (
	"errors"

	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/pkg/database"
)

// ErrNotFound is returned by update and delete when no row matched.
var ErrNotFound = errors.New("record not found")

// logFailure keeps expected constraint and serialization outcomes out of
// the error log; the caller translates those into domain errors.
func logFailure(log *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if code := database.SQLState(err); code != "" && (isIntegrityViolation(err) || database.IsSerializationFailure(err)) {
		log.Debug(msg, append(fields, zap.String("sqlstate", code))...)
		return
	}
	log.Error(msg, fields...)
}

func isIntegrityViolation(err error) bool {
	return database.IsUniqueViolation(err) ||
		database.IsForeignKeyViolation(err) ||
		database.IsExclusionViolation(err)
}
