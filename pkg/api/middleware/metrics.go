package middleware

import (
	"net/http"
	"strings"
	"time"
)

// MetricsRecorder receives one observation per served request, keyed by
// route pattern.
type MetricsRecorder interface {
	ObserveRoute(method, route string, code, bytes int, elapsed time.Duration)
	RequestStarted()
	RequestFinished()
}

// statusRecorder wraps http.ResponseWriter to capture status code and bytes written
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

// routeLabel is the matched ServeMux pattern without its method, so
// unmatched paths cannot grow the label set.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	p := r.Pattern
	if i := strings.IndexByte(p, ' '); i >= 0 {
		p = p[i+1:]
	}
	return p
}

// Metrics creates middleware that tracks HTTP request metrics. It must wrap
// the ServeMux directly or through middleware that passes the same request.
func Metrics(recorder MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if recorder == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			recorder.RequestStarted()
			defer recorder.RequestFinished()

			wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r)

			recorder.ObserveRoute(r.Method, routeLabel(r), wrapper.statusCode, wrapper.bytesWritten, time.Since(start))
		})
	}
}
