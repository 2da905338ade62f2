package middleware

import (
	"net/http"
	"time"

	"github.com/dd0wney/cluso-textnet/pkg/logging"
)

// Logging creates middleware that logs each request with its status and latency.
func Logging(logger logging.Logger) func(http.Handler) http.Handler {
	logger = logging.OrDefault(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r)

			logger.Info("http request",
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", wrapper.statusCode),
				logging.String("request_id", GetRequestID(r)),
				logging.Latency(time.Since(start)))
		})
	}
}
