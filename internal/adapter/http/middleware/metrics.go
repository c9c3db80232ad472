package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agriops/farmledger/internal/infrastructure/metrics"
)

// Metrics records request counts, latencies and in-flight requests onto the
// shared metric set.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.HTTPInFlight.Inc()
			defer m.HTTPInFlight.Dec()

			wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			path := normalizePath(r.URL.Path)

			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// idPrefixes are the route prefixes followed by a path identifier.
var idPrefixes = []string{
	"/api/v1/parties/",
	"/api/v1/items/",
	"/api/v1/entries/",
}

// normalizePath collapses path identifiers to keep label cardinality down.
// /api/v1/parties/42/balance -> /api/v1/parties/:id/balance
func normalizePath(path string) string {
	// items/production is the one static route sharing a prefix with an
	// id route.
	if path == "/api/v1/items/production" {
		return path
	}

	for _, prefix := range idPrefixes {
		if len(path) <= len(prefix) || !strings.HasPrefix(path, prefix) {
			continue
		}

		rest := path[len(prefix):]
		if rest[0] == '/' {
			continue
		}

		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return prefix + ":id" + rest[i:]
		}

		return prefix + ":id"
	}

	return path
}
