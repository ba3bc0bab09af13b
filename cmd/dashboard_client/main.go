package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dashboard_client/internal/app/port"
	"dashboard_client/internal/app/provider"
	"dashboard_client/internal/app/resilience"
	"dashboard_client/internal/app/service"
	"dashboard_client/internal/app/sessionguard"
	"dashboard_client/internal/infrastructure/configloader"
	"dashboard_client/internal/infrastructure/httpclient"
	"dashboard_client/internal/infrastructure/metrics"
	"dashboard_client/internal/infrastructure/restapi"
	"dashboard_client/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := configloader.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.Init(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewSlogAdapter()
	logger.Info("Dashboard client starting", "api", cfg.API.BaseURL, "port", cfg.Server.Port)

	metrics.MustRegisterMetrics()

	sessions, err := newSessionStore(cfg, appLogger)
	if err != nil {
		logger.Fatal("Failed to initialize session store", "error", err)
	}

	guard := sessionguard.New(
		sessionguard.WithCooldown(cfg.Session.AuthCooldown()),
		sessionguard.WithLogger(appLogger),
	)
	unsubscribe := guard.Subscribe(func(e sessionguard.AuthFailure) {
		logger.Warn("Backend rejected the session token, clearing session", "at", e.At)
		sessions.Clear()
	})
	defer unsubscribe()

	apiClient := httpclient.NewAPIClient(httpclient.Config{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.RequestTimeout(),
		RatePerSecond: cfg.API.RateLimit,
		Burst:         cfg.API.BurstLimit,
	}, sessions, guard, zapLogger)

	policy := resilience.Policy{MaxRetries: cfg.Retry.MaxRetries, BaseDelay: cfg.Retry.BaseDelay()}
	balanceSvc := service.NewBalanceService(apiClient, appLogger)
	graphSvc := service.NewGraphService(apiClient, appLogger, service.GraphOptions{
		Policy:       policy,
		CacheTTL:     cfg.Cache.DefaultExpiration(),
		CacheCleanup: cfg.Cache.CleanupInterval(),
	})
	dashboardSvc := service.NewDashboardService(apiClient, appLogger, service.DashboardOptions{
		Policy:   policy,
		FailFast: cfg.Dashboard.FailFast,
	})

	handler := restapi.NewHandler(balanceSvc, graphSvc, dashboardSvc, appLogger)
	router := restapi.SetupRouter(handler, cfg.Server.AllowedOrigins, zapLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received, stopping HTTP server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP server forced to shutdown", "error", err)
	}
	logger.Info("Dashboard client stopped")
}

func newSessionStore(cfg *configloader.Config, l port.Logger) (port.SessionStore, error) {
	if cfg.Session.TokenFile == "" {
		return provider.NewMemorySession(cfg.API.Token, l), nil
	}
	return provider.NewFileSession(cfg.Session.TokenFile, cfg.API.Token, l)
}
