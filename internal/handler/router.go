package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sunriseyouth/backend/internal/metrics"
	"github.com/sunriseyouth/backend/internal/service"
	"github.com/sunriseyouth/backend/pkg/auth"
)

// Deps is everything NewRouter wires into the HTTP surface.
type Deps struct {
	Store    Pinger
	Messages service.MessageService
	QRCodes  service.QRCodeService
	Content  service.ContentService
	Metrics  *metrics.Metrics

	Tokens        *auth.TokenIssuer
	AdminPassword string
	// AuthRequired turns on token checks for admin routes. When off they
	// run as auth.DefaultActor.
	AuthRequired bool

	CORSOrigins      []string
	ContactRateLimit int
	// ContactLimiter, when set, shares the contact form budget across
	// instances.
	ContactLimiter SharedLimiter
}

// NewRouter builds the application's HTTP handler.
func NewRouter(d Deps) http.Handler {
	h := New(d.Store, d.CORSOrigins)
	contentHandler := NewContentHandler(d.Content)
	contactHandler := NewContactHandler(d.Messages)
	messageHandler := NewMessageHandler(d.Messages)
	qrHandler := NewQRCodeHandler(d.QRCodes)
	authHandler := NewAuthHandler(d.Tokens, d.AdminPassword)

	admin := auth.PassThrough
	if d.AuthRequired {
		admin = auth.RequireAdmin(d.Tokens)
	}
	contactLimiter := NewRateLimiter(d.ContactRateLimit).WithShared(d.ContactLimiter)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(RequestLogger(d.Metrics))
	r.Use(SecurityHeaders)
	r.Use(h.CORS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.Banner)
		r.Get("/health", h.Health)
		r.Post("/auth/login", authHandler.Login)

		// Public
		r.Get("/content", contentHandler.Get)
		r.With(contactLimiter.Middleware).Post("/contact", contactHandler.Submit)
		r.Get("/qr/{code}", qrHandler.Resolve)

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Put("/content", contentHandler.Replace)
			r.Get("/messages", messageHandler.List)
			r.Patch("/messages/{id}/status", messageHandler.UpdateStatus)
			r.Get("/qrcodes", qrHandler.List)
			r.Post("/qrcodes", qrHandler.Create)
			r.Get("/qrcodes/{id}", qrHandler.Get)
			r.Put("/qrcodes/{id}", qrHandler.Update)
			r.Delete("/qrcodes/{id}", qrHandler.Delete)
		})
	})

	return r
}
