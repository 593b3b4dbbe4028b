package service

import (
	"context"
	"time"

	"github.com/sunriseyouth/backend/internal/model"
	"github.com/sunriseyouth/backend/internal/schema"
)

// MessageService defines the business logic for contact form messages.
type MessageService interface {
	// Submit validates input, stamps it with metadata and stores it.
	// Validation failures are returned as *schema.ValidationError.
	Submit(ctx context.Context, input schema.Document, meta model.RequestMetadata) (*model.Message, error)

	// List returns one page of messages plus pagination metadata.
	List(ctx context.Context, opts ListMessagesOptions) (*MessageList, error)

	// UpdateStatus changes the status of a message. A move to responded
	// records who responded and when; any other status clears that record.
	UpdateStatus(ctx context.Context, id string, change StatusChange) (*StatusResult, error)
}

// ListMessagesOptions is a raw listing request. Out-of-range or unknown
// values are normalized rather than rejected.
type ListMessagesOptions struct {
	Page    int
	Limit   int
	Status  string
	Subject string
	Sort    string
	Order   string
}

// AppliedFilters echoes the filters that were actually used.
type AppliedFilters struct {
	Status  string `json:"status,omitempty"`
	Subject string `json:"subject,omitempty"`
	Sort    string `json:"sort"`
	Order   string `json:"order"`
}

// MessageList is one page of messages.
type MessageList struct {
	Messages   []*model.Message
	Pagination Pagination
	Filters    AppliedFilters
}

// StatusChange is a requested status transition. Actor defaults to
// model.DefaultResponder.
type StatusChange struct {
	Status     string
	AdminNotes *string
	Actor      string
}

// StatusResult reports an applied status transition.
type StatusResult struct {
	MessageID   string     `json:"messageId"`
	Status      string     `json:"status"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	RespondedBy string     `json:"respondedBy,omitempty"`
}
