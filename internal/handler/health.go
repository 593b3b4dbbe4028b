package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthPingTimeout = 2 * time.Second

type healthResponse struct {
	DatabaseConnected bool `json:"databaseConnected"`
}

// Health always answers 200; the payload says whether the store responds.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		slog.WarnContext(r.Context(), "health check: store ping failed", "error", err)
		writeSuccess(w, http.StatusOK, healthResponse{DatabaseConnected: false}, "API is up but database is not connected")
		return
	}
	writeSuccess(w, http.StatusOK, healthResponse{DatabaseConnected: true}, "API is up and running")
}

// Banner handles GET /api/.
func (h *Handler) Banner(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, nil, "Sunrise Youth API")
}
