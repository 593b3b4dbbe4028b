package repository

import (
	"context"
	"time"

	"github.com/sunriseyouth/backend/internal/model"
)

// DB checks that the store connection is alive.
type DB interface {
	Ping(ctx context.Context) error
}

// MessageRepository persists contact form submissions.
type MessageRepository interface {
	// Insert stores msg and sets msg.ID to the store-assigned identifier.
	Insert(ctx context.Context, msg *model.Message) error
	List(ctx context.Context, q model.MessageQuery) ([]*model.Message, error)
	Count(ctx context.Context, f model.MessageFilter) (int64, error)
	// UpdateStatus returns a not-found error when no message has id.
	UpdateStatus(ctx context.Context, id string, upd model.MessageStatusUpdate) error
}

// QRCodeRepository persists short-code redirects.
type QRCodeRepository interface {
	// Insert stores qr and sets qr.ID to the store-assigned identifier.
	Insert(ctx context.Context, qr *model.QRCode) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindByCode(ctx context.Context, code string) (*model.QRCode, error)
	FindByID(ctx context.Context, id string) (*model.QRCode, error)
	List(ctx context.Context, skip, limit int) ([]*model.QRCode, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, upd model.QRCodeUpdate) error
	Delete(ctx context.Context, id string) error
	// IncrementClicks adds one to the click counter of code and stamps
	// lastClickedAt in a single atomic store operation.
	IncrementClicks(ctx context.Context, code string, at time.Time) error
}

// ContentRepository persists keyed singleton content documents.
type ContentRepository interface {
	Get(ctx context.Context, id string) (*model.Content, error)
	// Upsert replaces the whole payload of id, creating it when absent.
	Upsert(ctx context.Context, id string, data map[string]any, at time.Time) (model.UpsertResult, error)
}
