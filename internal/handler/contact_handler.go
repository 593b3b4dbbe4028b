package handler

import (
	"net/http"

	"github.com/sunriseyouth/backend/internal/model"
	"github.com/sunriseyouth/backend/internal/service"
)

const unknownMetadata = "unknown"

// ContactHandler handles public contact form submissions.
type ContactHandler struct {
	messages service.MessageService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(messages service.MessageService) *ContactHandler {
	return &ContactHandler{messages: messages}
}

type submitResponse struct {
	ID          string `json:"id"`
	SubmittedAt string `json:"submittedAt"`
	Status      string `json:"status"`
}

// Submit handles POST /api/contact. The optional "timestamp" body field is
// kept as the client-side submission time.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	meta := model.RequestMetadata{
		IPAddress: clientIP(r, trustedProxyCount),
		UserAgent: r.UserAgent(),
	}
	if meta.IPAddress == "" {
		meta.IPAddress = unknownMetadata
	}
	if meta.UserAgent == "" {
		meta.UserAgent = unknownMetadata
	}
	if ts, ok := input["timestamp"].(string); ok {
		meta.ClientTimestamp = ts
	}

	msg, err := h.messages.Submit(r.Context(), input, meta)
	if err != nil {
		writeServiceError(w, r, err, errorTexts{fallback: "Failed to process contact form"})
		return
	}

	writeSuccess(w, http.StatusCreated, submitResponse{
		ID:          msg.ID,
		SubmittedAt: msg.SubmittedAt.Format("2006-01-02T15:04:05.000Z07:00"),
		Status:      msg.Status,
	}, "Thank you for your message! We'll get back to you soon.")
}
