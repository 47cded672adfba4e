package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"catalog_web/config"
	"catalog_web/internal/clients"
	"catalog_web/internal/delivery"
	"catalog_web/internal/middleware"
	"catalog_web/internal/proxy"
	"catalog_web/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", level, logLevel.String())
	}
	logger.SetLevel(logLevel)
	return logger
}

func setupRouter(cfg *config.Config, uc usecase.CatalogUseCase, logger *logrus.Logger) (*gin.Engine, error) {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(), middleware.RequestLogger(logger))

	if err := delivery.LoadTemplates(router); err != nil {
		return nil, err
	}
	delivery.NewCatalogHandler(uc, logger).RegisterRoutes(router)

	if cfg.DevProxyEnabled {
		rp, err := proxy.NewReverseProxy(cfg.APIBaseURL, cfg.DevProxyPrefix, logger)
		if err != nil {
			return nil, err
		}
		proxy.Register(router, cfg.DevProxyPrefix, rp, logger)
		logger.Infof("Dev proxy mounted at %s/* -> %s", cfg.DevProxyPrefix, cfg.APIBaseURL)
	}
	return router, nil
}

func main() {
	bootLogger := newLogger("info")
	cfg := config.LoadConfig(bootLogger)

	logger := newLogger(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	logger.Info("Starting catalog web frontend...")
	logger.Infof("Inventory API target: %s", cfg.APIBaseURL)

	apiClient, err := clients.NewAPIClient(cfg.APIBaseURL, logger, clients.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		logger.Fatalf("FATAL: Failed to create API client: %v", err)
	}
	inventoryClient := clients.NewInventoryClient(apiClient, logger)

	catalogUseCase := usecase.NewCatalogUseCase(inventoryClient, logger)
	catalogUseCase.Mount()

	router, err := setupRouter(cfg, catalogUseCase, logger)
	if err != nil {
		logger.Fatalf("FATAL: Failed to set up router: %v", err)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPPort,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		catalogUseCase.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Graceful shutdown failed: %v", err)
		}
	}()

	logger.Infof("Catalog web frontend listening on %s", cfg.HTTPPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
