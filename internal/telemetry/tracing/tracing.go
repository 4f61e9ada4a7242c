package tracing

import (
	"fmt"
	"os"

	"github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

var GlobalTracer = otel.Tracer("guildsite-backend")

// HoneycombSetup configures the OpenTelemetry SDK with the honeycomb distro.
// Exporter settings (HONEYCOMB_API_KEY, OTEL_SERVICE_NAME, ...) come from the environment.
// When disabled, the global no-op tracer stays in place and the returned shutdown does nothing.
func HoneycombSetup(enabled bool, serviceName string) (func(), error) {
	if !enabled {
		return func() {}, nil
	}

	if os.Getenv("OTEL_SERVICE_NAME") == "" {
		if err := os.Setenv("OTEL_SERVICE_NAME", serviceName); err != nil {
			return nil, fmt.Errorf("set otel service name: %w", err)
		}
	}

	bsp := honeycomb.NewBaggageSpanProcessor()
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithSpanProcessor(bsp),
	)
	if err != nil {
		return nil, fmt.Errorf("configure opentelemetry: %w", err)
	}

	log.Debugf("honeycomb tracing set up for service [%s]", serviceName)
	return otelShutdown, nil
}
