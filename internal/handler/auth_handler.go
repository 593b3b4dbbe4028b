package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/sunriseyouth/backend/pkg/auth"
)

// AuthHandler issues admin tokens.
type AuthHandler struct {
	tokens   *auth.TokenIssuer
	password string
}

// NewAuthHandler creates an AuthHandler. An empty password disables login.
func NewAuthHandler(tokens *auth.TokenIssuer, password string) *AuthHandler {
	return &AuthHandler{tokens: tokens, password: password}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "Password is required", nil)
		return
	}
	if h.password == "" || subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) != 1 {
		slog.WarnContext(r.Context(), "login rejected")
		writeError(w, r, http.StatusUnauthorized, "Invalid password", nil)
		return
	}

	token, err := h.tokens.Issue(auth.DefaultActor)
	if err != nil {
		slog.ErrorContext(r.Context(), "issue token failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Login failed", nil)
		return
	}
	writeSuccess(w, http.StatusOK, loginResponse{Token: token}, "Login successful")
}
