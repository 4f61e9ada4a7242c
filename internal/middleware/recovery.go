package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/guildsite/internal/telemetry/metrics"
	"github.com/2beens/guildsite/pkg"
)

// PanicRecovery turns a handler panic into a generic 500, the details only go to the log.
// http.ErrAbortHandler is re-raised so net/http can abort the response as intended.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				route := "unknown"
				if current := mux.CurrentRoute(req); current != nil {
					if name := current.GetName(); name != "" {
						route = name
					}
				}
				log.WithFields(log.Fields{
					"route":  route,
					"method": req.Method,
					"path":   req.URL.Path,
				}).Errorf("panic serving request: %v\n%s", rec, debug.Stack())

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
			}()

			next.ServeHTTP(w, req)
		})
	}
}
