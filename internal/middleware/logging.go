// Package middleware provides the HTTP middleware chain: authentication,
// request logging, metrics and CORS.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs every request with method, path, status and duration.
// It runs before RequireAuth, so the user ID is read back through a
// holder the auth middleware fills in; unauthenticated requests log an
// empty user_id.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		holder := &userIDHolder{}
		r = r.WithContext(context.WithValue(r.Context(), userIDHolderKey, holder))

		next.ServeHTTP(rec, r)

		duration := time.Since(start).Milliseconds()
		userID := holder.id
		if rec.status >= 500 {
			slog.Error("request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"user_id", userID,
				"duration_ms", duration,
			)
		} else {
			slog.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"user_id", userID,
				"duration_ms", duration,
			)
		}
	})
}
