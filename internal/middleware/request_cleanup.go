package middleware

import (
	"io"
	"net/http"
)

// MaxRequestBodyBytes caps form and JSON bodies, guild forms are small.
const MaxRequestBodyBytes = 1 << 20

// DrainAndCloseRequest limits the request body and drains whatever the handler left unread,
// so the connection can be reused.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
