package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/guildsite/internal/applications"
	"github.com/2beens/guildsite/internal/auth"
	"github.com/2beens/guildsite/internal/config"
	"github.com/2beens/guildsite/internal/db"
	"github.com/2beens/guildsite/internal/feedback"
	"github.com/2beens/guildsite/internal/middleware"
	"github.com/2beens/guildsite/internal/notify"
	"github.com/2beens/guildsite/internal/telemetry/metrics"
	"github.com/2beens/guildsite/internal/telemetry/tracing"
	"github.com/2beens/guildsite/pkg"
)

type ApplicationsStore interface {
	Add(ctx context.Context, app *applications.Application) (*applications.Application, error)
	Get(ctx context.Context, id string) (*applications.Application, error)
	List(ctx context.Context, status applications.Status) ([]applications.Application, error)
	UpdateStatus(ctx context.Context, id string, status applications.Status) (*applications.Application, error)
	Delete(ctx context.Context, id string) error
}

type FeedbackStore interface {
	Add(ctx context.Context, fb *feedback.Feedback) (*feedback.Feedback, error)
	Get(ctx context.Context, id string) (*feedback.Feedback, error)
	List(ctx context.Context, status feedback.Status) ([]feedback.Feedback, error)
	UpdateStatus(ctx context.Context, id string, status feedback.Status) (*feedback.Feedback, error)
	Delete(ctx context.Context, id string) error
}

// Stores is the record store gateway the handlers run on.
type Stores struct {
	Admins       auth.AdminStore
	Applications ApplicationsStore
	Feedback     FeedbackStore
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	sessions            *auth.SessionExtractor
	authHandler         *auth.Handler
	applicationsHandler *applications.Handler
	feedbackHandler     *feedback.Handler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	JWTSecret               []byte
	PostgresPassword        string
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.PostgresPassword,
		SSLMode:        params.Config.PostgresSSLMode,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if err := db.EnsureSchema(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("ensure db schema: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("guildsite", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "guildsite-backend")
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	s, err := newServer(
		params.Config,
		params.JWTSecret,
		auth.DefaultHashCost,
		Stores{
			Admins:       auth.NewAdminRepo(dbPool),
			Applications: applications.NewRepo(dbPool),
			Feedback:     feedback.NewRepo(dbPool),
		},
		metricsManager,
	)
	if err != nil {
		otelShutdown()
		dbPool.Close()
		return nil, err
	}

	s.versionInfo = params.VersionInfo
	s.dbPool = dbPool
	s.promRegistry = promRegistry
	s.otelShutdown = otelShutdown

	return s, nil
}

// newServer assembles the auth components and handlers on top of the given stores.
func newServer(
	cfg *config.Config,
	jwtSecret []byte,
	hashCost int,
	stores Stores,
	metricsManager *metrics.Manager,
) (*Server, error) {
	hasher, err := auth.NewHasher(hashCost)
	if err != nil {
		return nil, fmt.Errorf("new hasher: %w", err)
	}

	tokens, err := auth.NewTokenService(jwtSecret, auth.DefaultTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("new token service: %w", err)
	}

	authLogger := log.WithField("component", "auth")
	authService, err := auth.NewService(stores.Admins, hasher, tokens, authLogger)
	if err != nil {
		return nil, fmt.Errorf("new auth service: %w", err)
	}
	sessions := auth.NewSessionExtractor(tokens, authLogger)

	notifier := notify.NewLogNotifier(cfg.AdminNotificationEmail, log.WithField("component", "notify"))

	return &Server{
		config:   cfg,
		sessions: sessions,
		authHandler: auth.NewHandler(
			authService,
			sessions,
			tokens,
			cfg.SecureCookie,
			metricsManager,
			authLogger,
		),
		applicationsHandler: applications.NewHandler(stores.Applications, sessions, notifier, metricsManager),
		feedbackHandler:     feedback.NewHandler(stores.Feedback, sessions, notifier, metricsManager),
		metricsManager:      metricsManager,
		otelShutdown:        func() {},
	}, nil
}

func (s *Server) routerSetup() http.Handler {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("guildsite-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET").Name("root")

	// wrapped per route, a wrong method on an /admin path must still answer 405
	requireSession := middleware.SessionAuth(s.sessions, s.metricsManager)

	s.authHandler.SetupRoutes(r, requireSession)
	s.applicationsHandler.SetupRoutes(r, requireSession)
	s.feedbackHandler.SetupRoutes(r, requireSession)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteJSONError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.DrainAndCloseRequest())

	// outside the router, so preflight requests are answered before route matching
	return middleware.Cors(s.config.AllowedOrigins)(r)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	msg := "guildsite backend up"
	if s.versionInfo != "" {
		msg += " (" + s.versionInfo + ")"
	}
	pkg.WriteTextResponseOK(w, msg)
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:           s.routerSetup(),
		Addr:              ipAndPort,
		WriteTimeout:      time.Minute,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
