package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sunriseyouth/backend/internal/model"
	"github.com/sunriseyouth/backend/internal/repository"
	"github.com/sunriseyouth/backend/internal/schema"
	"github.com/sunriseyouth/backend/internal/service"
)

const maxBodyBytes = 1 << 20

type successEnvelope struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
	Message   string `json:"message,omitempty"`
}

type errorBody struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Details   any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, successEnvelope{
		Success:   true,
		Timestamp: timestamp(),
		Data:      data,
		Message:   message,
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, details any) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Message:   message,
		Timestamp: timestamp(),
		Path:      r.URL.RequestURI(),
		Status:    status,
		Details:   details,
	}})
}

// errorTexts are the resource-specific messages used when mapping a
// service error.
type errorTexts struct {
	notFound  string
	invalidID string
	fallback  string
}

var invalidStatusMessage = "Invalid status. Must be one of: " + strings.Join(model.MessageStatuses, ", ")

// writeServiceError maps an error returned by a service onto a response.
// Client errors, not-found and store failures never share a status code.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, texts errorTexts) {
	var ve *schema.ValidationError
	switch {
	case errors.As(err, &ve):
		slog.WarnContext(r.Context(), "validation failed", "errors", ve.Errors)
		writeError(w, r, http.StatusBadRequest, ve.Error(), map[string]any{
			"type":   "validation_error",
			"errors": ve.Errors,
		})
	case errors.Is(err, service.ErrInvalidID):
		writeError(w, r, http.StatusBadRequest, texts.invalidID, nil)
	case errors.Is(err, service.ErrInvalidStatus):
		writeError(w, r, http.StatusBadRequest, invalidStatusMessage, nil)
	case errors.Is(err, service.ErrCodeImmutable):
		writeError(w, r, http.StatusBadRequest, "QR code cannot be changed once created", nil)
	case errors.Is(err, service.ErrContentRequired):
		writeError(w, r, http.StatusBadRequest, "Content data is required", nil)
	case errors.Is(err, service.ErrCodeTaken):
		writeError(w, r, http.StatusConflict, "QR code with this code already exists", nil)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, r, http.StatusNotFound, texts.notFound, nil)
	case errors.Is(err, repository.ErrUnavailable):
		slog.ErrorContext(r.Context(), "store unavailable", "error", err)
		writeError(w, r, http.StatusServiceUnavailable, "Database service unavailable", map[string]string{
			"type": "network_error",
		})
	default:
		slog.ErrorContext(r.Context(), texts.fallback, "error", err)
		detail := "unknown_error"
		var se *repository.StoreError
		if errors.As(err, &se) {
			detail = "database_error"
		}
		writeError(w, r, http.StatusInternalServerError, texts.fallback, map[string]string{
			"type": detail,
		})
	}
}

// decodeDocument reads a JSON object body. Numbers are kept as json.Number
// so the validator sees them as numbers rather than float64 guesses.
func decodeDocument(w http.ResponseWriter, r *http.Request) (schema.Document, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	var doc schema.Document
	if err := dec.Decode(&doc); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON body", nil)
		return nil, false
	}
	if doc == nil {
		doc = schema.Document{}
	}
	return doc, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON body", nil)
		return false
	}
	return true
}
