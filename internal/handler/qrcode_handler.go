package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sunriseyouth/backend/internal/model"
	"github.com/sunriseyouth/backend/internal/service"
	"github.com/sunriseyouth/backend/pkg/auth"
)

var qrErrors = errorTexts{
	notFound:  "QR code not found",
	invalidID: "Invalid QR code ID format",
	fallback:  "Failed to process QR code",
}

// QRCodeHandler handles the QR code catalog and public redirects.
type QRCodeHandler struct {
	qrcodes service.QRCodeService
}

// NewQRCodeHandler creates a QRCodeHandler.
func NewQRCodeHandler(qrcodes service.QRCodeService) *QRCodeHandler {
	return &QRCodeHandler{qrcodes: qrcodes}
}

type qrListResponse struct {
	QRCodes    []*model.QRCode    `json:"qrcodes"`
	Pagination service.Pagination `json:"pagination"`
}

type resolveResponse struct {
	Code string `json:"code"`
	Link string `json:"link"`
}

// List handles GET /api/qrcodes. Query params: page, limit.
func (h *QRCodeHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.qrcodes.List(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeServiceError(w, r, err, qrErrors)
		return
	}
	writeSuccess(w, http.StatusOK, qrListResponse{QRCodes: res.QRCodes, Pagination: res.Pagination}, "")
}

// Create handles POST /api/qrcodes.
func (h *QRCodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeDocument(w, r)
	if !ok {
		return
	}
	actor, _ := auth.ActorFromContext(r.Context())

	qr, err := h.qrcodes.Create(r.Context(), input, actor)
	if err != nil {
		writeServiceError(w, r, err, qrErrors)
		return
	}
	writeSuccess(w, http.StatusCreated, qr, "QR code created successfully")
}

// Get handles GET /api/qrcodes/{id}.
func (h *QRCodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	qr, err := h.qrcodes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, qrErrors)
		return
	}
	writeSuccess(w, http.StatusOK, qr, "")
}

// Update handles PUT /api/qrcodes/{id}.
func (h *QRCodeHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	qr, err := h.qrcodes.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeServiceError(w, r, err, qrErrors)
		return
	}
	writeSuccess(w, http.StatusOK, qr, "QR code updated successfully")
}

// Delete handles DELETE /api/qrcodes/{id}.
func (h *QRCodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.qrcodes.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, qrErrors)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{"id": id}, "QR code deleted successfully")
}

// Resolve handles GET /api/qr/{code}. It answers with the redirect target;
// the click is counted in the background.
func (h *QRCodeHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	qr, err := h.qrcodes.Resolve(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeServiceError(w, r, err, qrErrors)
		return
	}
	writeSuccess(w, http.StatusOK, resolveResponse{Code: qr.Code, Link: qr.Link}, "")
}
