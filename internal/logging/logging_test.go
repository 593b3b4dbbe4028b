package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestLogger_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "INFO")

	ctx := WithRequestID(context.Background(), "a1b2c3d4")
	logger.InfoContext(ctx, "message stored", "message_id", "m-1")

	rec := decode(t, &buf)
	assert.Equal(t, "a1b2c3d4", rec["request_id"])
	assert.Equal(t, "m-1", rec["message_id"])
	assert.NotContains(t, rec, "stacktrace")
}

func TestLogger_ErrorCarriesStack(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "")

	logger.Error("boom")

	rec := decode(t, &buf)
	assert.Contains(t, rec, "stacktrace")
	assert.NotContains(t, rec, "request_id")
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewRequestID(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	assert.Len(t, a, 8)
	assert.Regexp(t, `^[0-9a-f]{8}$`, a)
	assert.NotEqual(t, a, b)
}
