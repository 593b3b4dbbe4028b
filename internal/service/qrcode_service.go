package service

import (
	"context"

	"github.com/sunriseyouth/backend/internal/model"
	"github.com/sunriseyouth/backend/internal/schema"
)

// QRCodeService defines the business logic for the QR code catalog.
type QRCodeService interface {
	// Create rejects a code that is already in use with ErrCodeTaken. The
	// existence check and the insert are separate store calls; two
	// concurrent creates of the same code can both pass the check.
	Create(ctx context.Context, input schema.Document, createdBy string) (*model.QRCode, error)

	// Resolve returns the QR code for a redirect and records the click in
	// the background. The caller never waits for, or sees, the counter update.
	Resolve(ctx context.Context, code string) (*model.QRCode, error)

	Get(ctx context.Context, id string) (*model.QRCode, error)
	List(ctx context.Context, page, limit int) (*QRCodeList, error)

	// Update edits link and description. A payload carrying code is
	// rejected with ErrCodeImmutable.
	Update(ctx context.Context, id string, input schema.Document) (*model.QRCode, error)

	Delete(ctx context.Context, id string) error
}

// ClickRecorder accepts click increments without blocking.
type ClickRecorder interface {
	Track(code string) bool
}

// QRCodeList is one page of QR codes, newest first.
type QRCodeList struct {
	QRCodes    []*model.QRCode
	Pagination Pagination
}
