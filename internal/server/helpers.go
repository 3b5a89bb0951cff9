package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bobmcallan/fintrack/internal/models"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error codes returned alongside the message.
const (
	CodeValidation      = "validation"
	CodeNotFound        = "not_found"
	CodeTransport       = "upstream_unavailable"
	CodeSuperseded      = "superseded"
	CodeUnknownCategory = "unknown_category"
	CodeInternal        = "internal"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteErrorWithCode writes a JSON error response with an error code.
func WriteErrorWithCode(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WritePNG writes raw PNG bytes.
func WritePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// statusForError maps an error kind to its HTTP status and code.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, models.ErrTransport):
		return http.StatusBadGateway, CodeTransport
	case errors.Is(err, models.ErrSuperseded):
		return http.StatusConflict, CodeSuperseded
	case errors.Is(err, models.ErrUnknownCategory):
		return http.StatusInternalServerError, CodeUnknownCategory
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeTransport
	}
	return http.StatusInternalServerError, CodeInternal
}

// WriteServiceError writes err with the status its kind maps to.
func WriteServiceError(w http.ResponseWriter, err error) {
	status, code := statusForError(err)
	WriteErrorWithCode(w, status, err.Error(), code)
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil || r.Body == http.NoBody {
		WriteErrorWithCode(w, http.StatusBadRequest, "Request body is required", CodeValidation)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, "Invalid JSON: "+err.Error(), CodeValidation)
		return false
	}
	return true
}
