package model

import (
	"regexp"
	"slices"
	"time"

	"github.com/sunriseyouth/backend/internal/schema"
)

// Message statuses.
const (
	StatusNew       = "new"
	StatusRead      = "read"
	StatusResponded = "responded"
	StatusArchived  = "archived"
)

// Message subjects.
const (
	SubjectGeneral      = "general"
	SubjectPrograms     = "programs"
	SubjectVolunteer    = "volunteer"
	SubjectPartnership  = "partnership"
	SubjectSupport      = "support"
	SubjectSponsorships = "sponsorships"
	SubjectOther        = "other"
)

// MessageStatuses lists every valid status in display order.
var MessageStatuses = []string{StatusNew, StatusRead, StatusResponded, StatusArchived}

// MessageSubjects lists every valid subject in display order.
var MessageSubjects = []string{
	SubjectGeneral, SubjectPrograms, SubjectVolunteer, SubjectPartnership,
	SubjectSupport, SubjectSponsorships, SubjectOther,
}

// DefaultResponder is recorded in respondedBy when no admin identity is known.
const DefaultResponder = "admin"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MessageSchema is the rule set for contact form submissions.
var MessageSchema = schema.New("message",
	schema.String("name", schema.Required(), schema.Trim(), schema.MaxLength(100)),
	schema.String("email", schema.Required(), schema.Trim(), schema.MaxLength(255), schema.Pattern(emailPattern, "")),
	schema.String("subject", schema.Required(), schema.OneOf(MessageSubjects...), schema.Default(SubjectGeneral)),
	schema.String("message", schema.Required(), schema.Trim(), schema.MinLength(10), schema.MaxLength(2000)),
	schema.String("status", schema.OneOf(MessageStatuses...), schema.Default(StatusNew)),
	schema.Date("submittedAt", schema.Required(), schema.Immutable(), schema.DefaultFunc(func() any { return time.Now().UTC() })),
	schema.String("clientTimestamp"),
	schema.String("ipAddress", schema.MaxLength(45)),
	schema.String("userAgent", schema.MaxLength(500)),
	schema.String("adminNotes", schema.MaxLength(1000)),
	schema.Date("respondedAt"),
	schema.String("respondedBy", schema.MaxLength(100)),
)

// Message is a contact form submission.
type Message struct {
	ID              string     `json:"id" bson:"_id"`
	Name            string     `json:"name" bson:"name"`
	Email           string     `json:"email" bson:"email"`
	Subject         string     `json:"subject" bson:"subject"`
	Message         string     `json:"message" bson:"message"`
	Status          string     `json:"status" bson:"status"`
	SubmittedAt     time.Time  `json:"submittedAt" bson:"submittedAt"`
	ClientTimestamp string     `json:"clientTimestamp,omitempty" bson:"clientTimestamp,omitempty"`
	IPAddress       string     `json:"ipAddress,omitempty" bson:"ipAddress,omitempty"`
	UserAgent       string     `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	AdminNotes      *string    `json:"adminNotes,omitempty" bson:"adminNotes,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	RespondedAt     *time.Time `json:"respondedAt,omitempty" bson:"respondedAt,omitempty"`
	RespondedBy     string     `json:"respondedBy,omitempty" bson:"respondedBy,omitempty"`
}

// RequestMetadata is what the transport layer knows about a submission.
type RequestMetadata struct {
	IPAddress       string
	UserAgent       string
	ClientTimestamp string
}

// NewMessage validates a contact form submission and returns the document
// to persist. Status and submission time are always system-assigned; the
// response stamp and admin notes only ever come from a status update.
func NewMessage(input schema.Document, meta RequestMetadata) (*Message, error) {
	merged := schema.Merge(input,
		schema.Document{
			"submittedAt": time.Now().UTC(),
			"status":      StatusNew,
			"respondedAt": nil,
			"respondedBy": nil,
			"adminNotes":  nil,
		},
		schema.Document{
			"ipAddress":       nilIfEmpty(meta.IPAddress),
			"userAgent":       nilIfEmpty(meta.UserAgent),
			"clientTimestamp": nilIfEmpty(meta.ClientTimestamp),
		},
	)

	res := schema.Validate(MessageSchema, merged, schema.ModeCreate)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return messageFromDocument(res.Sanitized), nil
}

func messageFromDocument(d schema.Document) *Message {
	return &Message{
		Name:            d.String("name"),
		Email:           d.String("email"),
		Subject:         d.String("subject"),
		Message:         d.String("message"),
		Status:          d.String("status"),
		SubmittedAt:     d.Time("submittedAt"),
		ClientTimestamp: d.String("clientTimestamp"),
		IPAddress:       d.String("ipAddress"),
		UserAgent:       d.String("userAgent"),
		AdminNotes:      d.StringPtr("adminNotes"),
		RespondedAt:     d.TimePtr("respondedAt"),
		RespondedBy:     d.String("respondedBy"),
	}
}

// IsValidStatus reports whether s is one of MessageStatuses.
func IsValidStatus(s string) bool {
	return slices.Contains(MessageStatuses, s)
}

// IsValidSubject reports whether s is one of MessageSubjects.
func IsValidSubject(s string) bool {
	return slices.Contains(MessageSubjects, s)
}

// MessageStatusUpdate is the narrow update applied by a status change.
// RespondedAt and RespondedBy are only set when Status is responded; a store
// applying an update without them clears any earlier response stamp.
type MessageStatusUpdate struct {
	Status      string
	AdminNotes  *string
	UpdatedAt   time.Time
	RespondedAt *time.Time
	RespondedBy *string
}

// Message list sort keys.
const (
	SortSubmittedAt = "submittedAt"
	SortName        = "name"
	SortEmail       = "email"
	SortSubject     = "subject"
	SortStatus      = "status"
	SortRespondedAt = "respondedAt"
)

var messageSortKeys = []string{SortSubmittedAt, SortName, SortEmail, SortSubject, SortStatus, SortRespondedAt}

// IsValidMessageSort reports whether key names a sortable message field.
func IsValidMessageSort(key string) bool {
	return slices.Contains(messageSortKeys, key)
}

// MessageFilter selects messages. Empty members match everything.
type MessageFilter struct {
	Status  string
	Subject string
}

// MessageQuery is a fully resolved listing request handed to a store.
type MessageQuery struct {
	Filter MessageFilter
	Sort   string
	Desc   bool
	Skip   int
	Limit  int
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
