package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse carries a single human readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ResponseJSON writes data as JSON with a custom status code
func ResponseJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data == nil {
		return
	}
	json.NewEncoder(w).Encode(data)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, data any) {
	ResponseJSON(w, http.StatusOK, data)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, data any) {
	ResponseJSON(w, http.StatusCreated, data)
}

// returns 200 OK without a body
func ResponseEmpty(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

// ------------- Error responses -------------

// ResponseError writes the {status, error, message} body.
func ResponseError(w http.ResponseWriter, code int, label, message string) {
	ResponseJSON(w, code, ErrorResponse{
		Status:  code,
		Error:   label,
		Message: message,
	})
}

// returns 400 with a field -> message map
func ResponseValidation(w http.ResponseWriter, errors map[string]string) {
	ResponseJSON(w, http.StatusBadRequest, errors)
}

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusBadRequest, "Bad Request", message)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter) {
	ResponseError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
}
