package middleware

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/guildsite/internal/auth"
	"github.com/2beens/guildsite/internal/telemetry/metrics"
	"github.com/2beens/guildsite/internal/telemetry/tracing"
	"github.com/2beens/guildsite/pkg"
)

type identityResolver interface {
	Resolve(r *http.Request) *auth.Identity
}

// SessionAuth guards the admin routes: requests without a valid session cookie
// get a 401, the rest carry the resolved identity in their context.
func SessionAuth(sessions identityResolver, metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.sessionAuth")
			defer span.End()

			identity := sessions.Resolve(r)
			if identity == nil {
				log.Tracef("[session auth] unauthorized => %s %s", r.Method, r.URL.Path)
				if metricsManager != nil {
					metricsManager.CounterUnauthorizedRequests.Inc()
				}
				span.SetStatus(codes.Error, "no-session")
				pkg.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			span.SetAttributes(attribute.String("admin.id", identity.ID))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(ctx, identity)))
		})
	}
}
