package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sunriseyouth/backend/internal/metrics"
	"github.com/sunriseyouth/backend/internal/model"
	"github.com/sunriseyouth/backend/internal/repository"
	"github.com/sunriseyouth/backend/internal/schema"
)

// messageServiceImpl is the production implementation of MessageService.
type messageServiceImpl struct {
	repo    repository.MessageRepository
	metrics *metrics.Metrics
}

// NewMessageService creates a MessageService backed by the given repository.
// m may be nil.
func NewMessageService(repo repository.MessageRepository, m *metrics.Metrics) MessageService {
	return &messageServiceImpl{repo: repo, metrics: m}
}

func (s *messageServiceImpl) Submit(ctx context.Context, input schema.Document, meta model.RequestMetadata) (*model.Message, error) {
	msg, err := model.NewMessage(input, meta)
	if err != nil {
		s.metrics.IncrementValidationFailures(model.MessageSchema.Name)
		return nil, err
	}
	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}
	s.metrics.IncrementMessagesSubmitted()
	slog.InfoContext(ctx, "message stored",
		"message_id", msg.ID,
		"subject", model.SubjectLabel(msg.Subject),
	)
	return msg, nil
}

func (s *messageServiceImpl) List(ctx context.Context, opts ListMessagesOptions) (*MessageList, error) {
	page, limit := normalizePage(opts.Page, opts.Limit)

	var filter model.MessageFilter
	if model.IsValidStatus(opts.Status) {
		filter.Status = opts.Status
	}
	if model.IsValidSubject(opts.Subject) {
		filter.Subject = opts.Subject
	}
	sortKey := opts.Sort
	if !model.IsValidMessageSort(sortKey) {
		sortKey = model.SortSubmittedAt
	}
	order := "desc"
	if opts.Order == "asc" {
		order = "asc"
	}

	q := model.MessageQuery{
		Filter: filter,
		Sort:   sortKey,
		Desc:   order == "desc",
		Skip:   skipFor(page, limit),
		Limit:  limit,
	}

	var (
		messages []*model.Message
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		messages, err = s.repo.List(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if messages == nil {
		messages = []*model.Message{}
	}

	return &MessageList{
		Messages:   messages,
		Pagination: newPagination(page, limit, total),
		Filters: AppliedFilters{
			Status:  filter.Status,
			Subject: filter.Subject,
			Sort:    sortKey,
			Order:   order,
		},
	}, nil
}

func (s *messageServiceImpl) UpdateStatus(ctx context.Context, id string, change StatusChange) (*StatusResult, error) {
	if !model.IsValidStatus(change.Status) {
		return nil, ErrInvalidStatus
	}
	if change.AdminNotes != nil {
		res := schema.Validate(model.MessageSchema, schema.Document{"adminNotes": *change.AdminNotes}, schema.ModeUpdate)
		if err := res.Err(); err != nil {
			s.metrics.IncrementValidationFailures(model.MessageSchema.Name)
			return nil, err
		}
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	upd := model.MessageStatusUpdate{
		Status:     change.Status,
		AdminNotes: change.AdminNotes,
		UpdatedAt:  now,
	}
	result := &StatusResult{MessageID: id, Status: change.Status, UpdatedAt: now}
	if change.Status == model.StatusResponded {
		actor := change.Actor
		if actor == "" {
			actor = model.DefaultResponder
		}
		upd.RespondedAt = &now
		upd.RespondedBy = &actor
		result.RespondedAt = &now
		result.RespondedBy = actor
	}

	if err := s.repo.UpdateStatus(ctx, id, upd); err != nil {
		return nil, notFoundOr(err)
	}
	slog.InfoContext(ctx, "message status updated", "message_id", id, "status", change.Status)
	return result, nil
}
