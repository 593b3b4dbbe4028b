package service

import (
	"context"
	"sync"
	"time"

	"github.com/sunriseyouth/backend/internal/model"
)

// ---------------------------------------------------------------------------
// mockMessageRepository
// ---------------------------------------------------------------------------

type mockMessageRepository struct {
	insertFunc       func(ctx context.Context, msg *model.Message) error
	listFunc         func(ctx context.Context, q model.MessageQuery) ([]*model.Message, error)
	countFunc        func(ctx context.Context, f model.MessageFilter) (int64, error)
	updateStatusFunc func(ctx context.Context, id string, upd model.MessageStatusUpdate) error
}

func (m *mockMessageRepository) Insert(ctx context.Context, msg *model.Message) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, msg)
	}
	return nil
}

func (m *mockMessageRepository) List(ctx context.Context, q model.MessageQuery) ([]*model.Message, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockMessageRepository) Count(ctx context.Context, f model.MessageFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, f)
	}
	return 0, nil
}

func (m *mockMessageRepository) UpdateStatus(ctx context.Context, id string, upd model.MessageStatusUpdate) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, upd)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockQRCodeRepository
// ---------------------------------------------------------------------------

type mockQRCodeRepository struct {
	insertFunc          func(ctx context.Context, qr *model.QRCode) error
	existsByCodeFunc    func(ctx context.Context, code string) (bool, error)
	findByCodeFunc      func(ctx context.Context, code string) (*model.QRCode, error)
	findByIDFunc        func(ctx context.Context, id string) (*model.QRCode, error)
	listFunc            func(ctx context.Context, skip, limit int) ([]*model.QRCode, error)
	countFunc           func(ctx context.Context) (int64, error)
	updateFunc          func(ctx context.Context, id string, upd model.QRCodeUpdate) error
	deleteFunc          func(ctx context.Context, id string) error
	incrementClicksFunc func(ctx context.Context, code string, at time.Time) error
}

func (m *mockQRCodeRepository) Insert(ctx context.Context, qr *model.QRCode) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, qr)
	}
	return nil
}

func (m *mockQRCodeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if m.existsByCodeFunc != nil {
		return m.existsByCodeFunc(ctx, code)
	}
	return false, nil
}

func (m *mockQRCodeRepository) FindByCode(ctx context.Context, code string) (*model.QRCode, error) {
	if m.findByCodeFunc != nil {
		return m.findByCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *mockQRCodeRepository) FindByID(ctx context.Context, id string) (*model.QRCode, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockQRCodeRepository) List(ctx context.Context, skip, limit int) ([]*model.QRCode, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, skip, limit)
	}
	return nil, nil
}

func (m *mockQRCodeRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockQRCodeRepository) Update(ctx context.Context, id string, upd model.QRCodeUpdate) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, upd)
	}
	return nil
}

func (m *mockQRCodeRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockQRCodeRepository) IncrementClicks(ctx context.Context, code string, at time.Time) error {
	if m.incrementClicksFunc != nil {
		return m.incrementClicksFunc(ctx, code, at)
	}
	return nil
}

// ---------------------------------------------------------------------------
// mockContentRepository
// ---------------------------------------------------------------------------

type mockContentRepository struct {
	getFunc    func(ctx context.Context, id string) (*model.Content, error)
	upsertFunc func(ctx context.Context, id string, data map[string]any, at time.Time) (model.UpsertResult, error)
}

func (m *mockContentRepository) Get(ctx context.Context, id string) (*model.Content, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockContentRepository) Upsert(ctx context.Context, id string, data map[string]any, at time.Time) (model.UpsertResult, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, id, data, at)
	}
	return model.UpsertResult{}, nil
}

// ---------------------------------------------------------------------------
// recordingClicks
// ---------------------------------------------------------------------------

type recordingClicks struct {
	mu    sync.Mutex
	codes []string
}

func (r *recordingClicks) Track(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes = append(r.codes, code)
	return true
}

func (r *recordingClicks) tracked() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.codes...)
}
