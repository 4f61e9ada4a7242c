package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fields := log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"ua":     r.Header.Get("User-Agent"),
			}
			// set by otelmux when tracing is on
			if spanCtx := trace.SpanContextFromContext(r.Context()); spanCtx.HasTraceID() {
				fields["trace_id"] = spanCtx.TraceID().String()
			}
			log.WithFields(fields).Debug("request")
			next.ServeHTTP(w, r)
		})
	}
}
