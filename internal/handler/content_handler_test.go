package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunriseyouth/backend/internal/model"
	"github.com/sunriseyouth/backend/internal/repository"
	"github.com/sunriseyouth/backend/internal/service"
)

func TestContentGet_Available(t *testing.T) {
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := testDeps()
	d.Content = &mockContentService{getFunc: func(ctx context.Context) (*service.ContentResult, error) {
		return &service.ContentResult{State: model.ContentAvailable, Content: &model.Content{
			ID:        model.ContentID,
			Data:      map[string]any{"hero": map[string]any{"title": "Hello"}},
			UpdatedAt: &updated,
		}}, nil
	}}

	rec := serve(t, NewRouter(d), "GET", "/api/content", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec.Body)
	var data map[string]any
	require.NoError(t, jsonUnmarshal(env.Data, &data))
	assert.Equal(t, map[string]any{"title": "Hello"}, data["hero"])
	meta := data["_metadata"].(map[string]any)
	assert.Equal(t, model.ContentID, meta["id"])
	assert.Equal(t, "2026-03-01T12:00:00Z", meta["lastUpdated"])
}

func TestContentGet_EmptyAndInvalidAreSoft(t *testing.T) {
	tests := []struct {
		state model.ContentState
		want  string
	}{
		{model.ContentEmpty, service.ContentEmptyMessage},
		{model.ContentInvalid, service.ContentInvalidMessage},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			d := testDeps()
			d.Content = &mockContentService{getFunc: func(ctx context.Context) (*service.ContentResult, error) {
				return &service.ContentResult{State: tt.state}, nil
			}}

			rec := serve(t, NewRouter(d), "GET", "/api/content", nil)

			require.Equal(t, http.StatusOK, rec.Code)
			env := decodeEnvelope(t, rec.Body)
			assert.True(t, env.Success)
			assert.Equal(t, tt.want, env.Message)
			assert.JSONEq(t, `{"_metadata":{"error":"`+tt.want+`"}}`, string(env.Data))
		})
	}
}

func TestContentGet_StoreDown(t *testing.T) {
	d := testDeps()
	d.Content = &mockContentService{getFunc: func(ctx context.Context) (*service.ContentResult, error) {
		return nil, &repository.StoreError{Kind: repository.KindUnavailable, Op: "content.get"}
	}}

	rec := serve(t, NewRouter(d), "GET", "/api/content", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestContentReplace(t *testing.T) {
	var got map[string]any
	d := testDeps()
	d.Content = &mockContentService{replaceFunc: func(ctx context.Context, data map[string]any) (model.UpsertResult, error) {
		got = data
		return model.UpsertResult{Upserted: 1}, nil
	}}

	rec := serve(t, NewRouter(d), "PUT", "/api/content", strings.NewReader(`{"hero":{"title":"Hi"},"count":3}`))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec.Body)
	assert.Equal(t, "Content updated successfully", env.Message)
	assert.JSONEq(t, `{"matched":0,"modified":0,"upserted":1}`, string(env.Data))
	assert.Equal(t, float64(3), got["count"])
}

func TestContentReplace_EmptyBody(t *testing.T) {
	d := testDeps()
	d.Content = &mockContentService{replaceFunc: func(ctx context.Context, data map[string]any) (model.UpsertResult, error) {
		if len(data) == 0 {
			return model.UpsertResult{}, service.ErrContentRequired
		}
		return model.UpsertResult{}, nil
	}}

	rec := serve(t, NewRouter(d), "PUT", "/api/content", strings.NewReader(""))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec.Body)
	assert.Equal(t, "Content data is required", env.Error.Message)
}

func TestContentReplace_InvalidJSON(t *testing.T) {
	rec := serve(t, NewRouter(testDeps()), "PUT", "/api/content", strings.NewReader(`{"hero":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
