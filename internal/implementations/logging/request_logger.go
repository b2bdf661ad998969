package logging

import (
	"exzly/internal/core/domain/logging"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one entry per request. Server errors are logged
// at error level.
func RequestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			entries := []logging.LogEntry{
				logging.Entry("method", r.Method),
				logging.Entry("path", r.URL.Path),
				logging.Entry("status", status),
				logging.Entry("bytes", ww.BytesWritten()),
				logging.Entry("duration", time.Since(start).String()),
			}
			if status >= http.StatusInternalServerError {
				log.Error(r.Context(), "Request failed.", entries...)
				return
			}
			log.Info(r.Context(), "Request served.", entries...)
		})
	}
}
