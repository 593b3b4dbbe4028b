package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sunriseyouth/backend/internal/metrics"
	"github.com/sunriseyouth/backend/internal/model"
	"github.com/sunriseyouth/backend/internal/repository"
	"github.com/sunriseyouth/backend/internal/schema"
)

// qrCodeServiceImpl is the production implementation of QRCodeService.
type qrCodeServiceImpl struct {
	repo    repository.QRCodeRepository
	clicks  ClickRecorder
	metrics *metrics.Metrics
}

// NewQRCodeService creates a QRCodeService. m may be nil.
func NewQRCodeService(repo repository.QRCodeRepository, clicks ClickRecorder, m *metrics.Metrics) QRCodeService {
	return &qrCodeServiceImpl{repo: repo, clicks: clicks, metrics: m}
}

func (s *qrCodeServiceImpl) Create(ctx context.Context, input schema.Document, createdBy string) (*model.QRCode, error) {
	var missing []string
	for _, f := range []string{"code", "link"} {
		if v, ok := input[f]; !ok || v == nil || v == "" {
			missing = append(missing, f+" is required")
		}
	}
	if len(missing) > 0 {
		s.metrics.IncrementValidationFailures(model.QRCodeSchema.Name)
		return nil, schema.NewValidationError(missing...)
	}

	code := strings.TrimSpace(input.String("code"))
	exists, err := s.repo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("check code: %w", err)
	}
	if exists {
		return nil, ErrCodeTaken
	}

	qr, err := model.NewQRCode(input, createdBy)
	if err != nil {
		s.metrics.IncrementValidationFailures(model.QRCodeSchema.Name)
		return nil, err
	}
	if err := s.repo.Insert(ctx, qr); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrCodeTaken
		}
		return nil, fmt.Errorf("store qr code: %w", err)
	}
	slog.InfoContext(ctx, "qr code created", "qr_id", qr.ID, "code", qr.Code)
	return qr, nil
}

func (s *qrCodeServiceImpl) Resolve(ctx context.Context, code string) (*model.QRCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		s.metrics.IncrementRedirects("not_found")
		return nil, ErrNotFound
	}

	qr, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.IncrementRedirects("not_found")
			return nil, ErrNotFound
		}
		s.metrics.IncrementRedirects("error")
		return nil, err
	}

	s.metrics.IncrementRedirects("found")
	s.clicks.Track(qr.Code)
	return qr, nil
}

func (s *qrCodeServiceImpl) Get(ctx context.Context, id string) (*model.QRCode, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	qr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return qr, nil
}

func (s *qrCodeServiceImpl) List(ctx context.Context, page, limit int) (*QRCodeList, error) {
	page, limit = normalizePage(page, limit)

	var (
		codes []*model.QRCode
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		codes, err = s.repo.List(gctx, skipFor(page, limit), limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list qr codes: %w", err)
	}
	if codes == nil {
		codes = []*model.QRCode{}
	}
	return &QRCodeList{QRCodes: codes, Pagination: newPagination(page, limit, total)}, nil
}

func (s *qrCodeServiceImpl) Update(ctx context.Context, id string, input schema.Document) (*model.QRCode, error) {
	if _, ok := input["code"]; ok {
		return nil, ErrCodeImmutable
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	upd, err := model.PrepareQRCodeUpdate(input)
	if err != nil {
		s.metrics.IncrementValidationFailures(model.QRCodeSchema.Name)
		return nil, err
	}
	if err := s.repo.Update(ctx, id, *upd); err != nil {
		return nil, notFoundOr(err)
	}

	qr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	slog.InfoContext(ctx, "qr code updated", "qr_id", id)
	return qr, nil
}

func (s *qrCodeServiceImpl) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err)
	}
	slog.InfoContext(ctx, "qr code deleted", "qr_id", id)
	return nil
}
