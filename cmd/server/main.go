package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediroom/internal/core/services"
	httphandlers "mediroom/internal/handlers/http"
	"mediroom/internal/infrastructure/livekit"
	"mediroom/internal/infrastructure/middleware"
	"mediroom/internal/infrastructure/monitoring"
	repositories "mediroom/internal/infrastructure/repositories"
	"mediroom/pkg/config"
	"mediroom/pkg/logger"
	"mediroom/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/mediroom/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}

	if err != nil {
		// Configuration (including the signing secret) is mandatory; there
		// is no degraded mode without it.
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	logg := zapLogger.Sugar()
	contextLogger := logger.NewContextLogger(zapLogger)

	// Initialize tracing
	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "mediroom",
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		logg.Fatalw("failed to initialize tracing", "error", err)
	}

	// Initialize repository factory
	// Closed on the shutdown path below.
	repoFactory, err := repositories.NewRepositoryFactory(cfg, logg)
	if err != nil {
		logg.Fatalw("failed to create repository factory", "error", err)
	}

	sessionRepo := repoFactory.CreateSessionRepository()

	// Initialize the signing primitive and egress client
	signer := livekit.NewTokenSigner(cfg.LiveKit.APIKey, cfg.LiveKit.APISecret)
	egressClient := livekit.NewEgressClient(
		cfg.LiveKit.URL,
		signer,
		cfg.LiveKit.EgressTokenTTL,
		cfg.LiveKit.EgressTimeout,
		logg,
	)

	// Initialize services
	sessionService := services.NewSessionService(sessionRepo, logg)
	tokenService := services.NewTokenService(
		signer,
		sessionService,
		cfg.LiveKit.URL,
		cfg.LiveKit.TokenTTL,
		logg,
	)
	recordingService := services.NewRecordingService(
		egressClient,
		cfg.Recording.Layout,
		cfg.Recording.FilePathPrefix,
		logg,
	)

	// Initialize monitoring
	prometheusCollector := monitoring.NewPrometheusCollector()

	healthChecker := monitoring.NewHealthChecker()
	healthChecker.AddCheck("store", func(ctx context.Context) (bool, error) {
		if err := repoFactory.HealthCheck(ctx); err != nil {
			return false, err
		}
		return true, nil
	}, 2*time.Second)

	// Initialize HTTP handlers
	tokenHandler := httphandlers.NewTokenHandler(tokenService, prometheusCollector)
	recordingHandler := httphandlers.NewRecordingHandler(recordingService, prometheusCollector)
	consultationHandler := httphandlers.NewConsultationHandler(sessionService, prometheusCollector)
	healthHandler := httphandlers.NewHealthHandler(healthChecker)

	// Configure Gin
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(logg))
	router.Use(middleware.RequestLoggerMiddleware(contextLogger))
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}
	router.Use(middleware.MetricsMiddleware(prometheusCollector))
	router.Use(middleware.ErrorHandlerMiddleware(logg))

	tokenHandler.SetupRoutes(router)
	recordingHandler.SetupRoutes(router)
	consultationHandler.SetupRoutes(router)
	healthHandler.SetupRoutes(router)

	// Prometheus metrics endpoint
	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		logg.Info("Prometheus metrics enabled")
	}

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logg.Infof("Starting mediroom auth server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signals or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logg.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		logg.Infow("Received shutdown signal", "signal", sig)
	}

	logg.Info("Shutting down mediroom auth server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server gracefully
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Errorw("Error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			logg.Errorw("Error force closing server", "error", closeErr)
		}
	} else {
		logg.Info("Server shutdown gracefully")
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		logg.Errorw("Error shutting down tracer provider", "error", err)
	}

	if err := repoFactory.Close(); err != nil {
		logg.Errorw("Error closing repository factory", "error", err)
	}

	logg.Info("mediroom auth server stopped")
}
