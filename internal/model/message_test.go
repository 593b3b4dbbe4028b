package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunriseyouth/backend/internal/schema"
)

func validMessageInput() schema.Document {
	return schema.Document{
		"name":    "Jo",
		"email":   "jo@x.com",
		"subject": "general",
		"message": "Hello there, this is a test.",
	}
}

func TestNewMessage_AssignsSystemFields(t *testing.T) {
	before := time.Now().UTC()
	msg, err := NewMessage(validMessageInput(), RequestMetadata{})
	require.NoError(t, err)

	assert.Equal(t, "Jo", msg.Name)
	assert.Equal(t, "jo@x.com", msg.Email)
	assert.Equal(t, SubjectGeneral, msg.Subject)
	assert.Equal(t, StatusNew, msg.Status)
	assert.False(t, msg.SubmittedAt.Before(before))
	assert.Nil(t, msg.AdminNotes)
	assert.Nil(t, msg.RespondedAt)
	assert.Empty(t, msg.RespondedBy)
}

func TestNewMessage_StatusCannotBeChosenByCaller(t *testing.T) {
	in := validMessageInput()
	in["status"] = StatusResponded
	in["submittedAt"] = "2001-01-01T00:00:00Z"

	msg, err := NewMessage(in, RequestMetadata{})
	require.NoError(t, err)

	assert.Equal(t, StatusNew, msg.Status)
	assert.NotEqual(t, 2001, msg.SubmittedAt.Year())
}

func TestNewMessage_DropsAdminFieldsFromCaller(t *testing.T) {
	in := validMessageInput()
	in["respondedAt"] = "2024-01-01T00:00:00Z"
	in["respondedBy"] = "mallory"
	in["adminNotes"] = "injected"

	msg, err := NewMessage(in, RequestMetadata{})
	require.NoError(t, err)

	assert.Equal(t, StatusNew, msg.Status)
	assert.Nil(t, msg.RespondedAt)
	assert.Empty(t, msg.RespondedBy)
	assert.Nil(t, msg.AdminNotes)
}

func TestNewMessage_MetadataWins(t *testing.T) {
	in := validMessageInput()
	in["ipAddress"] = "6.6.6.6"

	msg, err := NewMessage(in, RequestMetadata{
		IPAddress:       "10.0.0.1",
		UserAgent:       "curl/8.0",
		ClientTimestamp: "2024-01-01T00:00:00.000Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1", msg.IPAddress)
	assert.Equal(t, "curl/8.0", msg.UserAgent)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", msg.ClientTimestamp)
}

func TestNewMessage_TrimsFields(t *testing.T) {
	in := validMessageInput()
	in["name"] = "  Jo  "
	in["email"] = " jo@x.com "

	msg, err := NewMessage(in, RequestMetadata{})
	require.NoError(t, err)

	assert.Equal(t, "Jo", msg.Name)
	assert.Equal(t, "jo@x.com", msg.Email)
}

func TestNewMessage_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(schema.Document)
		want   string
	}{
		{"missing name", func(d schema.Document) { delete(d, "name") }, "name is required"},
		{"blank email", func(d schema.Document) { d["email"] = "" }, "email is required"},
		{"bad email", func(d schema.Document) { d["email"] = "not-an-email" }, "email format is invalid"},
		{"short message", func(d schema.Document) { d["message"] = "too short" }, "message must be at least 10 characters long"},
		{"long message", func(d schema.Document) { d["message"] = strings.Repeat("m", 2001) }, "message must be no more than 2000 characters long"},
		{"long name", func(d schema.Document) { d["name"] = strings.Repeat("n", 101) }, "name must be no more than 100 characters long"},
		{"unknown subject", func(d schema.Document) { d["subject"] = "spam" },
			"subject must be one of: general, programs, volunteer, partnership, support, sponsorships, other"},
		{"notes too long", func(d schema.Document) { d["adminNotes"] = strings.Repeat("x", 1001) }, "adminNotes must be no more than 1000 characters long"},
		{"name not a string", func(d schema.Document) { d["name"] = 12 }, "name must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validMessageInput()
			tt.mutate(in)

			_, err := NewMessage(in, RequestMetadata{})
			require.Error(t, err)

			var ve *schema.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Errors, tt.want)
		})
	}
}

func TestNewMessage_AtMaxLengthPasses(t *testing.T) {
	in := validMessageInput()
	in["name"] = strings.Repeat("n", 100)
	in["message"] = strings.Repeat("m", 2000)

	_, err := NewMessage(in, RequestMetadata{})
	assert.NoError(t, err)
}

func TestNewMessage_JoinsAllErrors(t *testing.T) {
	_, err := NewMessage(schema.Document{}, RequestMetadata{})
	require.Error(t, err)

	assert.Equal(t,
		"Validation failed: name is required, email is required, subject is required, message is required",
		err.Error())
}

func TestMessageSchema_StatusEnum(t *testing.T) {
	for _, s := range MessageStatuses {
		res := schema.Validate(MessageSchema, schema.Document{"status": s}, schema.ModeUpdate)
		assert.True(t, res.Valid, s)
	}

	res := schema.Validate(MessageSchema, schema.Document{"status": "deleted"}, schema.ModeUpdate)
	assert.False(t, res.Valid)
	assert.NotContains(t, res.Sanitized, "status")
}

func TestMessageSchema_SubmittedAtImmutable(t *testing.T) {
	res := schema.Validate(MessageSchema, schema.Document{"submittedAt": time.Now()}, schema.ModeUpdate)

	assert.True(t, res.Valid)
	assert.NotContains(t, res.Sanitized, "submittedAt")
}

func TestIsValidSubjectAndStatus(t *testing.T) {
	assert.True(t, IsValidSubject("sponsorships"))
	assert.False(t, IsValidSubject("General"))
	assert.True(t, IsValidStatus("archived"))
	assert.False(t, IsValidStatus(""))
	assert.True(t, IsValidMessageSort("submittedAt"))
	assert.False(t, IsValidMessageSort("password"))
}
