package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/venueguard/internal/security/audit"
	"github.com/aryan0dhankhar/venueguard/internal/security/auth"
	"github.com/aryan0dhankhar/venueguard/internal/security/ratelimit"
)

func okHandler(t *testing.T, wantActor bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := ActorFromContext(r.Context())
		assert.Equal(t, wantActor, ok)
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("secret", "")
	log := logger.New(io.Discard, "error")
	token, err := tm.GenerateToken("user-1", domain.RoleStaff, "s@example.com", time.Hour)
	require.NoError(t, err)

	t.Run("public path skips auth", func(t *testing.T) {
		rr := httptest.NewRecorder()
		JWTMiddleware(tm, log)(okHandler(t, false)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		JWTMiddleware(tm, log)(okHandler(t, false)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/incidents", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/incidents", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rr := httptest.NewRecorder()
		JWTMiddleware(tm, log)(okHandler(t, false)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token sets actor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/incidents", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		JWTMiddleware(tm, log)(okHandler(t, true)).ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewLimiter(1, time.Minute)
	defer limiter.Stop()
	log := logger.New(io.Discard, "error")
	h := RateLimitMiddleware(limiter, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/incidents", nil)
		req = req.WithContext(WithClaims(req.Context(), &auth.Claims{UserID: "user-1", Role: domain.RoleStaff}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestAuditMiddlewareLogsMutations(t *testing.T) {
	var buf bytes.Buffer
	al := audit.NewLogger(logger.New(&buf, "info"))
	h := AuditMiddleware(al)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/incidents/inc-1", nil)
	req = req.WithContext(WithClaims(req.Context(), &auth.Claims{UserID: "user-1", Role: domain.RoleAdmin}))
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"resource":"incidents"`)
	assert.Contains(t, out, `"resource_id":"inc-1"`)
	assert.Contains(t, out, `"status":"204"`)

	buf.Reset()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/incidents", nil))
	assert.Empty(t, buf.String(), "reads are not audited")
}

func TestJSONBody(t *testing.T) {
	log := logger.New(io.Discard, "error")
	h := JSONBody(16, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method, contentType, body string) int {
		req := httptest.NewRequest(method, "/api/incidents", bytes.NewBufferString(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusUnsupportedMediaType, send(http.MethodPost, "application/x-www-form-urlencoded", "x=1"))
	assert.Equal(t, http.StatusUnsupportedMediaType, send(http.MethodPut, "application/jsonp", "{}"))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "application/json; charset=utf-8", "{}"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, send(http.MethodPost, "application/json", `{"description":"far too long"}`))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "", ""))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "text/plain", "ignored"))
}

func TestResourceFromPath(t *testing.T) {
	res, id := resourceFromPath("/api/warnings/w-1")
	assert.Equal(t, "warnings", res)
	assert.Equal(t, "w-1", id)

	res, id = resourceFromPath("/api/reports/incidents")
	assert.Equal(t, "reports", res)
	assert.Equal(t, "incidents", id)
}
