package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunriseyouth/backend/internal/metrics"
	"github.com/sunriseyouth/backend/pkg/auth"
)

const testAdminPassword = "open-sesame"

func testDeps() Deps {
	return Deps{
		Store:            &mockPinger{},
		Messages:         &mockMessageService{},
		QRCodes:          &mockQRCodeService{},
		Content:          &mockContentService{},
		Tokens:           auth.NewTokenIssuer("test-secret", time.Hour),
		AdminPassword:    testAdminPassword,
		CORSOrigins:      []string{"http://localhost:5144"},
		ContactRateLimit: 100,
	}
}

func serve(t *testing.T, h http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Banner(t *testing.T) {
	rec := serve(t, NewRouter(testDeps()), "GET", "/api/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec.Body)
	assert.True(t, env.Success)
	assert.Equal(t, "Sunrise Youth API", env.Message)
	assert.Equal(t, "null", string(env.Data))
}

func TestRouter_Health_Connected(t *testing.T) {
	rec := serve(t, NewRouter(testDeps()), "GET", "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec.Body)
	assert.JSONEq(t, `{"databaseConnected":true}`, string(env.Data))
}

func TestRouter_Health_DisconnectedStill200(t *testing.T) {
	d := testDeps()
	d.Store = &mockPinger{pingFunc: func(ctx context.Context) error {
		return errors.New("connection refused")
	}}

	rec := serve(t, NewRouter(d), "GET", "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec.Body)
	assert.JSONEq(t, `{"databaseConnected":false}`, string(env.Data))
	assert.Equal(t, "API is up but database is not connected", env.Message)
}

func TestRouter_UnknownRoute(t *testing.T) {
	rec := serve(t, NewRouter(testDeps()), "GET", "/api/nope?x=1", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec.Body)
	require.NotNil(t, env.Error)
	assert.Equal(t, "/api/nope?x=1", env.Error.Path)
	assert.Equal(t, http.StatusNotFound, env.Error.Status)
}

func TestRouter_SetsRequestIDAndSecurityHeaders(t *testing.T) {
	rec := serve(t, NewRouter(testDeps()), "GET", "/api/health", nil)

	assert.Len(t, rec.Header().Get(RequestIDHeader), 8)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRouter_AdminRoutesOpenWhenAuthNotRequired(t *testing.T) {
	rec := serve(t, NewRouter(testDeps()), "GET", "/api/messages", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AdminRoutesNeedTokenWhenAuthRequired(t *testing.T) {
	d := testDeps()
	d.AuthRequired = true
	router := NewRouter(d)

	rec := serve(t, router, "GET", "/api/messages", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Public routes stay public.
	rec = serve(t, router, "GET", "/api/content", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	login := serve(t, router, "POST", "/api/auth/login", strings.NewReader(`{"password":"`+testAdminPassword+`"}`))
	require.Equal(t, http.StatusOK, login.Code)
	var token struct {
		Token string `json:"token"`
	}
	env := decodeEnvelope(t, login.Body)
	require.NoError(t, jsonUnmarshal(env.Data, &token))

	req := httptest.NewRequest("GET", "/api/messages", nil)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	d := testDeps()
	d.Metrics = metrics.New()
	router := NewRouter(d)

	serve(t, router, "GET", "/api/health", nil)
	rec := serve(t, router, "GET", "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/health"`)
}

func TestRouter_ContactIsRateLimited(t *testing.T) {
	d := testDeps()
	d.ContactRateLimit = 2
	router := NewRouter(d)

	body := `{"name":"Jo","email":"jo@x.com","subject":"general","message":"Hello there, this is a test."}`
	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/contact", strings.NewReader(body))
		req.RemoteAddr = "198.51.100.4:5000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
