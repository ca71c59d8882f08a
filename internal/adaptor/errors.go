package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/zoebbogner/popcorn-palace/internal/usecase"
	"github.com/zoebbogner/popcorn-palace/pkg/utils"
)

func statusOf(kind usecase.Kind) int {
	switch kind {
	case usecase.KindInvalidArgument:
		return http.StatusBadRequest
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindConflict:
		return http.StatusConflict
	case usecase.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes the response for a failed service call.
// Storage details of internal errors stay in the log.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var validationErr *usecase.ValidationError
	if errors.As(err, &validationErr) {
		log.Debug(operation+" validation failed", zap.Any("fields", validationErr.Fields))
		utils.ResponseValidation(w, validationErr.Fields)
		return
	}

	var domainErr *usecase.Error
	if errors.As(err, &domainErr) {
		status := statusOf(domainErr.Kind)
		if status >= http.StatusInternalServerError {
			log.Warn(operation+" failed", zap.Error(err), zap.String("operation", operation))
		} else {
			log.Debug(operation+" rejected", zap.String("reason", domainErr.Label), zap.String("operation", operation))
		}
		utils.ResponseError(w, status, domainErr.Label, domainErr.Message)
		return
	}

	log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	utils.ResponseInternalError(w)
}

// decodeJSON reports false after writing a 400 when the body is not valid
// JSON for dst. The decoder detail only goes to the log.
func decodeJSON(w http.ResponseWriter, r *http.Request, log *zap.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Debug("Malformed request body", zap.Error(err), zap.String("path", r.URL.Path))
		utils.ResponseBadRequest(w, "Invalid request body")
		return false
	}
	return true
}
