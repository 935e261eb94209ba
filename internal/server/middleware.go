// internal/server/middleware.go

package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chanalytics/internal/logging"
	"chanalytics/internal/metrics"
)

// requestIDWithLogging reuses or assigns X-Request-ID and carries it in
// the request context for logging.Ctx.
func requestIDWithLogging(next http.Handler) http.Handler {
	chiRequestID := middleware.RequestID(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(middleware.RequestIDHeader)
		if requestID == "" {
			requestID = logging.NewRequestID()
			r.Header.Set(middleware.RequestIDHeader, requestID)
		}
		w.Header().Set(middleware.RequestIDHeader, requestID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		chiRequestID.ServeHTTP(w, r.WithContext(ctx))
	})
}

// unmatchedEndpoint labels requests that matched no route
const unmatchedEndpoint = "unmatched"

// instrument logs each request and records API metrics by route pattern
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		endpoint := endpointLabel(r)
		duration := time.Since(start)
		metrics.RecordAPIRequest(r.Method, endpoint, status, duration)

		logging.Ctx(r.Context()).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", duration).
			Msg("HTTP request")
	})
}

// endpointLabel returns the matched route pattern so label values stay bounded
func endpointLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unmatchedEndpoint
}
