package api

import (
	"net/http"
	"time"

	"github.com/Abdorithm/alx-files-manager/pkg/log"
	"github.com/Abdorithm/alx-files-manager/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

// observe logs and measures every request by its matched route pattern.
func observe(logger log.LoggerService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := metrics.NewStatusRecorder(w)

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			metrics.ObserveRequest(r.Method, route, rec.Status, elapsed)
			logger.Debug("%s %s %d %s", r.Method, r.URL.Path, rec.Status, elapsed)
		})
	}
}

// limitBody caps request bodies at limit bytes.
func limitBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
