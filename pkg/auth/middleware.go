package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

type contextKey string

const actorKey contextKey = "actor"

// DefaultActor is attributed to admin actions when nobody is signed in.
const DefaultActor = "admin"

// ActorFromContext returns the admin identity stored in ctx.
func ActorFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(actorKey).(string)
	return v, ok && v != ""
}

// WithActor stores the admin identity in ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// RequireAdmin rejects requests without a valid "Authorization: Bearer"
// admin token and stores the token subject as the actor.
func RequireAdmin(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w, r, "Access token is required")
				return
			}
			claims, err := issuer.Verify(raw)
			if err != nil {
				msg := "Invalid token"
				if errors.Is(err, ErrTokenExpired) {
					msg = "Token has expired"
				}
				unauthorized(w, r, msg)
				return
			}

			actor := claims.Subject
			if actor == "" {
				actor = DefaultActor
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// PassThrough lets every request through as DefaultActor. It is used for
// admin routes while AUTH_REQUIRED is off.
func PassThrough(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), DefaultActor)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message":   msg,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"path":      r.URL.Path,
			"status":    http.StatusUnauthorized,
		},
	})
}
