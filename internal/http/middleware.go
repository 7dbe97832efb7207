package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

const requestIDHeader = "X-Request-ID"

// logRequests tags the request context with method, path and request id so
// every entry written while serving it carries them, then logs one line per
// request. A well formed incoming X-Request-ID is kept.
func logRequests(logger interfaces.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		requestID := requestIDFor(r)
		w.Header().Set(requestIDHeader, requestID)
		ctx := logging.ContextWithFields(r.Context(), map[string]any{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": requestID,
		})
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r.WithContext(ctx))

		logger.WithContext(ctx).Info("http.request",
			"status", recorder.status,
			"elapsed", time.Since(started),
		)
	})
}

func requestIDFor(r *http.Request) string {
	if incoming := strings.TrimSpace(r.Header.Get(requestIDHeader)); incoming != "" {
		if id, err := uuid.Parse(incoming); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}
