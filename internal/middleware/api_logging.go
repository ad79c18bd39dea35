package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// APILogging logs one line per API request. Static files and probes are
// skipped to keep the log usable.
func APILogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: 200}

		next.ServeHTTP(rw, r)

		log.Printf("[API] %s %s -> %d (%d bytes, %s)",
			r.Method, r.URL.Path, rw.statusCode, rw.bytesWritten, time.Since(start))
	})
}

func shouldSkipLogging(path string) bool {
	return strings.HasPrefix(path, "/static/") ||
		path == "/health" ||
		path == "/ready" ||
		path == "/metrics"
}
