package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sunriseyouth/backend/internal/model"
	"github.com/sunriseyouth/backend/internal/repository"
)

// ContentService reads and replaces the landing page content singleton.
type ContentService interface {
	// Get never reports a missing or malformed document as an error; see
	// ContentResult.State.
	Get(ctx context.Context) (*ContentResult, error)
	// Replace overwrites the whole payload, creating the document on first
	// use. An empty payload is rejected with ErrContentRequired.
	Replace(ctx context.Context, data map[string]any) (model.UpsertResult, error)
}

// ContentResult is the outcome of reading the singleton.
type ContentResult struct {
	State   model.ContentState
	Content *model.Content
}

// Soft outcome messages for an unusable singleton.
const (
	ContentEmptyMessage   = "No content available"
	ContentInvalidMessage = "Content structure is invalid"
)

type contentService struct {
	repo repository.ContentRepository
}

// NewContentService creates a ContentService backed by the given repository.
func NewContentService(repo repository.ContentRepository) ContentService {
	return &contentService{repo: repo}
}

func (s *contentService) Get(ctx context.Context) (*ContentResult, error) {
	c, err := s.repo.Get(ctx, model.ContentID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		slog.InfoContext(ctx, "no content found")
		return &ContentResult{State: model.ContentEmpty}, nil
	case err != nil:
		return nil, fmt.Errorf("get content: %w", err)
	}
	if c.Data == nil {
		slog.WarnContext(ctx, "content found but data field is missing")
		return &ContentResult{State: model.ContentInvalid, Content: c}, nil
	}
	return &ContentResult{State: model.ContentAvailable, Content: c}, nil
}

func (s *contentService) Replace(ctx context.Context, data map[string]any) (model.UpsertResult, error) {
	if len(data) == 0 {
		return model.UpsertResult{}, ErrContentRequired
	}
	res, err := s.repo.Upsert(ctx, model.ContentID, data, time.Now().UTC())
	if err != nil {
		return model.UpsertResult{}, fmt.Errorf("replace content: %w", err)
	}
	slog.InfoContext(ctx, "content updated",
		"matched", res.Matched,
		"modified", res.Modified,
		"upserted", res.Upserted,
	)
	return res, nil
}
