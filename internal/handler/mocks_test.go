package handler

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/sunriseyouth/backend/internal/model"
	"github.com/sunriseyouth/backend/internal/schema"
	"github.com/sunriseyouth/backend/internal/service"
)

type mockPinger struct {
	pingFunc func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

type mockMessageService struct {
	submitFunc       func(ctx context.Context, input schema.Document, meta model.RequestMetadata) (*model.Message, error)
	listFunc         func(ctx context.Context, opts service.ListMessagesOptions) (*service.MessageList, error)
	updateStatusFunc func(ctx context.Context, id string, change service.StatusChange) (*service.StatusResult, error)
}

func (m *mockMessageService) Submit(ctx context.Context, input schema.Document, meta model.RequestMetadata) (*model.Message, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, input, meta)
	}
	return &model.Message{}, nil
}

func (m *mockMessageService) List(ctx context.Context, opts service.ListMessagesOptions) (*service.MessageList, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return &service.MessageList{}, nil
}

func (m *mockMessageService) UpdateStatus(ctx context.Context, id string, change service.StatusChange) (*service.StatusResult, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, change)
	}
	return &service.StatusResult{}, nil
}

type mockQRCodeService struct {
	createFunc  func(ctx context.Context, input schema.Document, createdBy string) (*model.QRCode, error)
	resolveFunc func(ctx context.Context, code string) (*model.QRCode, error)
	getFunc     func(ctx context.Context, id string) (*model.QRCode, error)
	listFunc    func(ctx context.Context, page, limit int) (*service.QRCodeList, error)
	updateFunc  func(ctx context.Context, id string, input schema.Document) (*model.QRCode, error)
	deleteFunc  func(ctx context.Context, id string) error
}

func (m *mockQRCodeService) Create(ctx context.Context, input schema.Document, createdBy string) (*model.QRCode, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, input, createdBy)
	}
	return &model.QRCode{}, nil
}

func (m *mockQRCodeService) Resolve(ctx context.Context, code string) (*model.QRCode, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, code)
	}
	return &model.QRCode{}, nil
}

func (m *mockQRCodeService) Get(ctx context.Context, id string) (*model.QRCode, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return &model.QRCode{}, nil
}

func (m *mockQRCodeService) List(ctx context.Context, page, limit int) (*service.QRCodeList, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, page, limit)
	}
	return &service.QRCodeList{}, nil
}

func (m *mockQRCodeService) Update(ctx context.Context, id string, input schema.Document) (*model.QRCode, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, input)
	}
	return &model.QRCode{}, nil
}

func (m *mockQRCodeService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockContentService struct {
	getFunc     func(ctx context.Context) (*service.ContentResult, error)
	replaceFunc func(ctx context.Context, data map[string]any) (model.UpsertResult, error)
}

func (m *mockContentService) Get(ctx context.Context) (*service.ContentResult, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx)
	}
	return &service.ContentResult{State: model.ContentEmpty}, nil
}

func (m *mockContentService) Replace(ctx context.Context, data map[string]any) (model.UpsertResult, error) {
	if m.replaceFunc != nil {
		return m.replaceFunc(ctx, data)
	}
	return model.UpsertResult{}, nil
}

// envelope is the union of the success and error response shapes.
type envelope struct {
	Success   bool            `json:"success"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Error     *struct {
		Message string          `json:"message"`
		Path    string          `json:"path"`
		Status  int             `json:"status"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, body io.Reader) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

// extractField returns the raw JSON of one member of an object.
func extractField(t *testing.T, raw json.RawMessage, key string) string {
	t.Helper()
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		t.Fatalf("decode object: %v", err)
	}
	return string(obj[key])
}
