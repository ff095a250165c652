package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/security"
	"github.com/aryan0dhankhar/venueguard/internal/security/middleware"
	"github.com/aryan0dhankhar/venueguard/internal/service"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MessageResponse is returned by deletes and other bodiless successes
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps err onto a status code. Store failures are logged and
// reported without detail.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials", Code: "UNAUTHORIZED"})
		return
	}

	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch domain.KindOf(err) {
	case domain.KindInvalidInput:
		status, code = http.StatusBadRequest, "INVALID_INPUT"
	case domain.KindNotFound:
		status, code = http.StatusNotFound, "NOT_FOUND"
	case domain.KindUnauthorized:
		status, code = http.StatusForbidden, "FORBIDDEN"
	default:
		logger.Error("request failed", slog.String("error", err.Error()))
	}
	writeJSON(w, status, ErrorResponse{Error: domain.MessageOf(err), Code: code})
}

// decode reads a JSON body into dst
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return err
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.InvalidInput("request body exceeds %d bytes", tooLarge.Limit)
		}
		return domain.InvalidInput("invalid request body")
	}
	return nil
}

// actor returns the authenticated caller or writes a 401
func actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	a, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "missing auth", Code: "UNAUTHORIZED"})
	}
	return a, ok
}

// permit rejects callers whose role lacks perm before the request body is read
func permit(authz *security.AuthorizationService, perm security.Permission, logger *slog.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := actor(w, r)
		if !ok {
			return
		}
		if err := authz.ValidatePermission(a.Role, perm); err != nil {
			writeError(w, logger, err)
			return
		}
		next(w, r)
	}
}
