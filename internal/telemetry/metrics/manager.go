package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests             *prometheus.CounterVec
	CounterLoginAttempts        *prometheus.CounterVec
	CounterPasswordChanges      *prometheus.CounterVec
	CounterApplications         prometheus.Counter
	CounterFeedback             prometheus.Counter
	CounterStatusUpdates        *prometheus.CounterVec
	CounterUnauthorizedRequests prometheus.Counter
	CounterHandleRequestPanic   prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("guildsite", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("guildsite", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterLoginAttempts := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "admin_login_attempts",
		Help:      "Admin login attempts by result",
	}, []string{"result"})
	counterPasswordChanges := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "admin_password_changes",
		Help:      "Admin password change attempts by result",
	}, []string{"result"})
	counterApplications := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "membership_applications",
		Help:      "The total number of submitted membership applications",
	})
	counterFeedback := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "feedback_messages",
		Help:      "The total number of submitted feedback messages",
	})
	counterStatusUpdates := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "status_updates",
		Help:      "Status transitions made from the admin dashboard",
	}, []string{"kind", "status"})
	counterUnauthorizedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "unauthorized_requests",
		Help:      "Requests to protected routes rejected for missing or invalid session",
	})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})

	return &Manager{
		CounterRequests:             counterRequests,
		CounterLoginAttempts:        counterLoginAttempts,
		CounterPasswordChanges:      counterPasswordChanges,
		CounterApplications:         counterApplications,
		CounterFeedback:             counterFeedback,
		CounterStatusUpdates:        counterStatusUpdates,
		CounterUnauthorizedRequests: counterUnauthorizedRequests,
		CounterHandleRequestPanic:   counterHandleRequestPanic,
		GaugeRequests:               gaugeRequests,
		GaugeLifeSignal:             gaugeLifeSignal,
		HistogramRequestDuration:    histogramRequestDuration,
	}
}
