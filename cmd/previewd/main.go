package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"txpreview/internal/app/service"
	"txpreview/internal/config"
	"txpreview/internal/domain/entity"
	"txpreview/internal/infrastructure/gateway"
	"txpreview/internal/infrastructure/restapi"
	"txpreview/internal/pkg/logger"
	"txpreview/internal/pkg/metrics"
)

func main() {
	// Bootstrap logging before the config is available.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Configuration loaded",
		zap.String("path", cfgPath),
		zap.String("network", cfg.Network.Name))

	metrics.MustRegisterMetrics()

	entityCache := gateway.NewEntityCache(
		time.Duration(cfg.Cache.DefaultExpirationMinutes)*time.Minute,
		time.Duration(cfg.Cache.CleanupIntervalMinutes)*time.Minute,
	)

	limiter := rate.NewLimiter(rate.Limit(cfg.Gateway.RateLimitPerSecond), cfg.Gateway.RateLimitBurst)
	ledgerClient := gateway.NewLedgerClient(
		cfg.Gateway.BaseURL,
		time.Duration(cfg.Gateway.RequestTimeoutMillis)*time.Millisecond,
		limiter,
		entityCache,
		zapLogger,
		cfg.Gateway.MaxAddressesPerRequest,
	)
	zapLogger.Info("Ledger gateway client initialized", zap.String("baseURL", cfg.Gateway.BaseURL))

	portLogger := logger.NewZapAdapter(zapLogger.Named("PreviewService"))
	previewService := service.NewPreviewService(
		ledgerClient,
		ledgerClient,
		entityCache,
		portLogger,
		entity.ResourceAddress(cfg.Network.XRDAddress),
	)
	zapLogger.Info("PreviewService initialized")

	previewHandler := restapi.NewPreviewHandler(previewService, cfg, logger.NewZapAdapter(zapLogger.Named("PreviewHandler")))
	router := restapi.SetupRouter(previewHandler)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
