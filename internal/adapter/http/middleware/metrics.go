package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iho/creditline/internal/infrastructure/metrics"
)

const accountsPrefix = "/api/v1/accounts/"

// Metrics returns a middleware recording HTTP metrics on m.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.HTTPInFlight.Inc()
			defer m.HTTPInFlight.Dec()

			// Wrap response writer to capture status code
			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			path := normalizePath(r.URL.Path)

			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

// normalizePath normalizes URL paths to avoid high cardinality.
// /api/v1/accounts/01ABC123/events -> /api/v1/accounts/:id/events
func normalizePath(path string) string {
	rest, ok := strings.CutPrefix(path, accountsPrefix)
	if !ok || rest == "" {
		return path
	}

	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return accountsPrefix + ":id" + rest[i:]
	}

	return accountsPrefix + ":id"
}
