package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/opsconsole/internal/api/middleware"
	"github.com/GriffinCanCode/opsconsole/internal/console"
	"github.com/GriffinCanCode/opsconsole/internal/console/shell"
	"github.com/GriffinCanCode/opsconsole/internal/display"
	handlers "github.com/GriffinCanCode/opsconsole/internal/http"
	"github.com/GriffinCanCode/opsconsole/internal/infrastructure/config"
	"github.com/GriffinCanCode/opsconsole/internal/infrastructure/logging"
	"github.com/GriffinCanCode/opsconsole/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/opsconsole/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/opsconsole/internal/providers/catalog"
	"github.com/GriffinCanCode/opsconsole/internal/providers/terminal"
	"github.com/GriffinCanCode/opsconsole/internal/service"
	"github.com/GriffinCanCode/opsconsole/internal/ws"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	console  *console.Manager
	surfaces *display.Registry
	hub      *ws.Hub
	registry *service.Registry
	tracer   *tracing.Tracer
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: nil config")
	}

	logger := logging.FromLevel(cfg.Logging.Level, cfg.Logging.Development)
	logger.Info("Initializing console server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.Duration("tool_latency", cfg.Console.ToolLatency.Std()),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("opsconsole", logger.Named("trace"))

	// Displays fan out to every websocket client through the hub
	hub := ws.NewHub(logger.Named("ws"), metrics)
	surfaces := display.NewRegistry(hub,
		display.WithEncoding(display.EncodeANSI),
		display.WithScrollback(cfg.Console.Scrollback),
		display.WithLogger(logger.Named("display")),
	)

	interp := shell.NewInterpreter(shell.WithLatency(cfg.Console.ToolLatency.Std()))
	manager := console.NewManager(surfaces.Factory(),
		console.WithLogger(logger),
		console.WithMetrics(metrics),
		console.WithInterpreter(interp),
		console.WithProfile(console.Profile{
			User:     cfg.Console.User,
			Hostname: cfg.Console.Hostname,
			Home:     cfg.Console.Home,
		}),
		console.WithWelcome(cfg.Console.Welcome),
		console.WithObserver(hub.Observe),
	)

	registry := service.NewRegistry(metrics)
	for _, provider := range []service.Provider{
		terminal.NewProvider(manager, surfaces),
		catalog.NewProvider(interp),
	} {
		if err := registry.Register(provider); err != nil {
			manager.Shutdown()
			tracer.Close()
			return nil, fmt.Errorf("failed to register %s provider: %w", provider.Definition().ID, err)
		}
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.CORSForOrigins(cfg.Server.AllowOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limits.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limits))
	}

	handlers.NewHandlers(manager, surfaces, registry, metrics).Register(router)
	router.GET("/stream", ws.NewHandler(hub, manager, surfaces).HandleConnection)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	levels := gin.WrapH(logger.LevelHandler())
	router.GET("/log/level", levels)
	router.PUT("/log/level", levels)

	logger.Info("Server initialized successfully",
		zap.Int("sessions", len(manager.Sessions())),
		zap.Int("services", len(registry.List(nil))),
	)

	srv := &Server{
		router:   router,
		console:  manager,
		surfaces: surfaces,
		hub:      hub,
		registry: registry,
		tracer:   tracer,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}
	srv.http = &http.Server{
		Addr:              srv.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Console returns the session manager backing the server
func (s *Server) Console() *console.Manager {
	return s.console
}

// Addr is the listen address derived from the config
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and
// releases everything NewServer created
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if serr := s.http.Shutdown(ctx); serr != nil {
		s.logger.Error("Failed to shut down HTTP server", zap.Error(serr))
		err = fmt.Errorf("failed to shut down http server: %w", serr)
	}
	s.Close()
	return err
}

// Close shuts down the console and flushes telemetry
func (s *Server) Close() {
	s.logger.Info("Shutting down server...")
	s.console.Shutdown()
	s.tracer.Close()
	_ = s.logger.Sync()
}
