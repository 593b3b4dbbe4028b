package model

import (
	"regexp"
	"time"

	"github.com/sunriseyouth/backend/internal/schema"
)

var (
	codePattern = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)
	linkPattern = regexp.MustCompile(`^https?://.+`)
)

// QRCodeSchema is the rule set for short-code redirects.
var QRCodeSchema = schema.New("qrcode",
	schema.String("code", schema.Required(), schema.Trim(), schema.MaxLength(50), schema.Immutable(),
		schema.Pattern(codePattern, "code can only contain letters, numbers, hyphens, and underscores")),
	schema.String("link", schema.Required(), schema.Trim(), schema.MaxLength(2000),
		schema.Pattern(linkPattern, "link must be a valid URL starting with http:// or https://")),
	schema.String("description", schema.Trim(), schema.MaxLength(500)),
	schema.Date("createdAt", schema.Required(), schema.DefaultFunc(func() any { return time.Now().UTC() })),
	schema.Date("updatedAt", schema.Required(), schema.DefaultFunc(func() any { return time.Now().UTC() })),
	schema.String("createdBy", schema.MaxLength(100)),
	schema.Number("clickCount", schema.Default(0)),
	schema.Date("lastClickedAt"),
)

// DefaultCreator is recorded in createdBy when no admin identity is known.
const DefaultCreator = "admin"

// QRCode maps a short code to an external link and tracks its use.
type QRCode struct {
	ID            string     `json:"id" bson:"_id"`
	Code          string     `json:"code" bson:"code"`
	Link          string     `json:"link" bson:"link"`
	Description   string     `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
	CreatedBy     string     `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	ClickCount    int64      `json:"clickCount" bson:"clickCount"`
	LastClickedAt *time.Time `json:"lastClickedAt,omitempty" bson:"lastClickedAt,omitempty"`
}

// QRCodeUpdate is the validated delta of an edit. Nil members are left
// untouched by the store.
type QRCodeUpdate struct {
	Link        *string
	Description *string
	UpdatedAt   time.Time
}

// NewQRCode validates a new QR code. Timestamps, creator and the click
// counter are system-assigned.
func NewQRCode(input schema.Document, createdBy string) (*QRCode, error) {
	if createdBy == "" {
		createdBy = DefaultCreator
	}
	now := time.Now().UTC()
	merged := schema.Merge(input, schema.Document{
		"createdAt":  now,
		"updatedAt":  now,
		"createdBy":  createdBy,
		"clickCount": 0,
	})

	res := schema.Validate(QRCodeSchema, merged, schema.ModeCreate)
	if err := res.Err(); err != nil {
		return nil, err
	}
	d := res.Sanitized
	return &QRCode{
		Code:          d.String("code"),
		Link:          d.String("link"),
		Description:   d.String("description"),
		CreatedAt:     d.Time("createdAt"),
		UpdatedAt:     d.Time("updatedAt"),
		CreatedBy:     d.String("createdBy"),
		ClickCount:    d.Int64("clickCount"),
		LastClickedAt: d.TimePtr("lastClickedAt"),
	}, nil
}

// PrepareQRCodeUpdate validates an edit payload. Required checks are
// skipped and code is never part of the result. Only link and description
// are editable; every other supplied field is still validated but dropped.
func PrepareQRCodeUpdate(input schema.Document) (*QRCodeUpdate, error) {
	merged := schema.Merge(input, schema.Document{"updatedAt": time.Now().UTC()})

	res := schema.Validate(QRCodeSchema, merged, schema.ModeUpdate)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return &QRCodeUpdate{
		Link:        res.Sanitized.StringPtr("link"),
		Description: res.Sanitized.StringPtr("description"),
		UpdatedAt:   res.Sanitized.Time("updatedAt"),
	}, nil
}
