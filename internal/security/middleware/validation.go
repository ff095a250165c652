package middleware

import (
	"log/slog"
	"mime"
	"net/http"
)

// DefaultMaxBodyBytes caps record payloads. The largest legitimate body is a
// warning or ban with its id list, well under this.
const DefaultMaxBodyBytes = 1 << 20

// JSONBody rejects write requests whose body is not JSON and caps the body at
// maxBytes. Requests without a body pass through so handlers can report the
// missing fields themselves.
func JSONBody(maxBytes int64, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
			default:
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				log.Warn("rejected non-json body",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("content_type", r.Header.Get("Content-Type")),
				)
				writeError(w, http.StatusUnsupportedMediaType, "request body must be application/json", "UNSUPPORTED_MEDIA_TYPE")
				return
			}
			if r.ContentLength > maxBytes {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large", "PAYLOAD_TOO_LARGE")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
