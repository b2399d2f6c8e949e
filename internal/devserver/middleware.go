package devserver

import (
	"net/http"
	"time"

	"github.com/diogo/teamlens/internal/logger"
	"github.com/diogo/teamlens/internal/models"
)

// loggingMiddleware logs one line per request with its status and duration
func loggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(wrapped, r)

			fields := logger.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      wrapped.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote":      r.RemoteAddr,
			}
			if id := r.Header.Get(models.HeaderRequestID); id != "" {
				fields["request_id"] = id
			}
			if wrapped.statusCode >= 500 {
				log.Error("request", fields)
			} else {
				log.Info("request", fields)
			}
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
