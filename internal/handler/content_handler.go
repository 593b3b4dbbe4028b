package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sunriseyouth/backend/internal/model"
	"github.com/sunriseyouth/backend/internal/service"
)

var contentErrors = errorTexts{
	notFound: "Content not found",
	fallback: "Internal server error",
}

// ContentHandler serves the landing page content singleton.
type ContentHandler struct {
	svc service.ContentService
}

// NewContentHandler creates a ContentHandler with the given service.
func NewContentHandler(svc service.ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// Get handles GET /api/content. The payload's keys are returned at the top
// level of data next to a _metadata object.
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err, contentErrors)
		return
	}

	switch res.State {
	case model.ContentEmpty:
		writeSuccess(w, http.StatusOK, map[string]any{
			"_metadata": map[string]any{"error": service.ContentEmptyMessage},
		}, service.ContentEmptyMessage)
		return
	case model.ContentInvalid:
		writeSuccess(w, http.StatusOK, map[string]any{
			"_metadata": map[string]any{"error": service.ContentInvalidMessage},
		}, service.ContentInvalidMessage)
		return
	}

	data := make(map[string]any, len(res.Content.Data)+1)
	for k, v := range res.Content.Data {
		data[k] = v
	}
	data["_metadata"] = map[string]any{
		"lastUpdated": res.Content.UpdatedAt,
		"id":          res.Content.ID,
	}
	writeSuccess(w, http.StatusOK, data, "")
}

// Replace handles PUT /api/content. The body becomes the whole payload.
func (h *ContentHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&data)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON body", nil)
		return
	}

	res, err := h.svc.Replace(r.Context(), data)
	if err != nil {
		writeServiceError(w, r, err, errorTexts{fallback: "Failed to update content"})
		return
	}
	writeSuccess(w, http.StatusOK, res, "Content updated successfully")
}
