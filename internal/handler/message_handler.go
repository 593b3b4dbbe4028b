package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sunriseyouth/backend/internal/model"
	"github.com/sunriseyouth/backend/internal/service"
	"github.com/sunriseyouth/backend/pkg/auth"
)

var messageErrors = errorTexts{
	notFound:  "Message not found",
	invalidID: "Invalid message ID format",
	fallback:  "Failed to update message status",
}

// MessageHandler handles the admin message inbox.
type MessageHandler struct {
	messages service.MessageService
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(messages service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// messageView is a message decorated with display labels.
type messageView struct {
	*model.Message
	SubjectLabel string `json:"subjectLabel"`
	StatusLabel  string `json:"statusLabel"`
}

type messageListResponse struct {
	Messages   []messageView          `json:"messages"`
	Pagination service.Pagination     `json:"pagination"`
	Filters    service.AppliedFilters `json:"filters"`
}

// queryInt parses an integer query parameter; anything unparsable is 0 and
// left to the service defaults.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

// List handles GET /api/messages.
// Query params: page, limit, status, subject, sort, order.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.messages.List(r.Context(), service.ListMessagesOptions{
		Page:    queryInt(r, "page"),
		Limit:   queryInt(r, "limit"),
		Status:  q.Get("status"),
		Subject: q.Get("subject"),
		Sort:    q.Get("sort"),
		Order:   q.Get("order"),
	})
	if err != nil {
		writeServiceError(w, r, err, errorTexts{fallback: "Failed to fetch messages"})
		return
	}

	views := make([]messageView, 0, len(res.Messages))
	for _, m := range res.Messages {
		views = append(views, messageView{
			Message:      m,
			SubjectLabel: model.SubjectLabel(m.Subject),
			StatusLabel:  model.StatusLabel(m.Status),
		})
	}
	writeSuccess(w, http.StatusOK, messageListResponse{
		Messages:   views,
		Pagination: res.Pagination,
		Filters:    res.Filters,
	}, fmt.Sprintf("Retrieved %d messages", len(views)))
}

type updateStatusRequest struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"adminNotes"`
}

// UpdateStatus handles PATCH /api/messages/{id}/status.
func (h *MessageHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	actor, _ := auth.ActorFromContext(r.Context())
	res, err := h.messages.UpdateStatus(r.Context(), chi.URLParam(r, "id"), service.StatusChange{
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
		Actor:      actor,
	})
	if err != nil {
		writeServiceError(w, r, err, messageErrors)
		return
	}
	writeSuccess(w, http.StatusOK, res, "Message status updated successfully")
}
