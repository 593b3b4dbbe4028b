package model

import "time"

// ContentID is the fixed key of the landing page content document.
const ContentID = "landing"

// Content is the singleton landing page document. Data holds an arbitrary
// JSON object; a nil Data means the stored document has no payload.
type Content struct {
	ID        string         `json:"id" bson:"_id"`
	Data      map[string]any `json:"data" bson:"data,omitempty"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// ContentState describes what a read of the singleton found.
type ContentState int

const (
	ContentAvailable ContentState = iota
	ContentEmpty
	ContentInvalid
)

// UpsertResult reports what an upsert did.
type UpsertResult struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
	Upserted int64 `json:"upserted"`
}
