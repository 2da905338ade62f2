package middleware

import (
	"fmt"
	"net/http"
)

// BodySizeLimit rejects request bodies above maxBytes with 413. A declared
// Content-Length is checked before the handler runs; chunked bodies hit
// the limit while being read. maxBytes <= 0 disables the limit.
func BodySizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes <= 0 || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > maxBytes {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				fmt.Fprintf(w, "{\"error\":%q,\"message\":\"request body exceeds %d bytes\",\"code\":%d}\n",
					http.StatusText(http.StatusRequestEntityTooLarge), maxBytes, http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
