// Package middleware holds the small set of cross-cutting HTTP
// concerns wrapped around the dispatcher: request logging, body-size
// limiting, and baseline security response headers.
package middleware

import (
	"net/http"
)

// MaxBodySize bounds login submissions and any other request body the
// dispatcher reads in full before acting on it.
const MaxBodySize = 1 << 20 // 1MB

// BodySizeLimit caps request bodies at maxBytes: a handler that reads
// past the limit gets an *http.MaxBytesError instead of more data.
func BodySizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders adds baseline security response headers. The CSP is
// a plain same-origin default-src policy: the login page is the only
// first-party content this server renders, and it references no
// external origins.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}
