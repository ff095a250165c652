package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/venueguard/internal/security/audit"
	"github.com/aryan0dhankhar/venueguard/internal/security/auth"
	"github.com/aryan0dhankhar/venueguard/internal/security/ratelimit"
)

type ClaimsContextKey struct{}

const loginPath = "/api/auth/login"

// loginAttemptsPerMinute bounds password guessing per client address
const loginAttemptsPerMinute = 10

func isPublic(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	switch r.URL.Path {
	case "/healthz", "/readyz", "/metrics", loginPath:
		return true
	}
	return false
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}

func JWTMiddleware(tm *auth.TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing auth", "UNAUTHORIZED")
				return
			}

			tokenString, err := auth.ExtractToken(authHeader)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid auth", "UNAUTHORIZED")
				return
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				log.Debug("token rejected", slog.String("error", err.Error()))
				writeError(w, http.StatusUnauthorized, "invalid token", "INVALID_TOKEN")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey{}, claims)
			ctx = logger.WithUserID(ctx, claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitMiddleware limits authenticated callers by user id and login attempts by client address
func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == loginPath && r.Method == http.MethodPost {
				if !limiter.AllowStrict(clientIP(r), loginAttemptsPerMinute, time.Minute) {
					log.Warn("login rate limit exceeded", slog.String("remote", clientIP(r)))
					writeError(w, http.StatusTooManyRequests, "rate limit exceeded", "RATE_LIMIT_EXCEEDED")
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			if isPublic(r) {
				next.ServeHTTP(w, r)
				return
			}

			userID := ""
			if claims := GetClaimsFromContext(r.Context()); claims != nil {
				userID = claims.UserID
			}

			if !limiter.Allow(userID) {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded", "RATE_LIMIT_EXCEEDED")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AuditMiddleware records every mutating request with its outcome
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodOptions || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			userID, role := "", ""
			if claims := GetClaimsFromContext(r.Context()); claims != nil {
				userID = claims.UserID
				role = string(claims.Role)
			}
			resource, resourceID := resourceFromPath(r.URL.Path)
			status := strconv.Itoa(rec.status)

			if rec.status == http.StatusForbidden {
				auditLog.LogDenied(r.Context(), userID, role, r.Method+" "+r.URL.Path)
				return
			}
			auditLog.LogAction(r.Context(), userID, role, strings.ToLower(r.Method), resource, resourceID, status, "")
		})
	}
}

func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(ClaimsContextKey{}).(*auth.Claims); ok {
		return c
	}
	return nil
}

// ActorFromContext returns the authenticated actor, if any
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	claims := GetClaimsFromContext(ctx)
	if claims == nil {
		return domain.Actor{}, false
	}
	return claims.Actor(), true
}

// WithClaims stores claims in ctx the way JWTMiddleware does
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey{}, claims)
}

// resourceFromPath splits /api/<resource>/<id>/... into resource and id
func resourceFromPath(path string) (string, string) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(path, "/api"), "/"), "/")
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], parts[1]
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
