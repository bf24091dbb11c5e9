package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"card-classifier-api/internal/config"
	"card-classifier-api/internal/handlers"
	"card-classifier-api/internal/middleware"
	"card-classifier-api/pkg/server"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	container, err := server.NewContainer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize container")
	}
	defer container.Close()

	logger := container.Logger

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(&handlers.RouterConfig{
		CardService:    container.CardService,
		Health:         container,
		Logger:         logger,
		RoutePrefix:    cfg.RoutePrefix,
		DeploymentMode: container.DeploymentMode,
		HTTP:           cfg.HTTP,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.CORSHandler(cfg.HTTP.CORSAllowedOrigins, router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithFields(container.Serverless.LogFields()).WithFields(logrus.Fields{
		"port":         cfg.Port,
		"route_prefix": cfg.RoutePrefix,
		"institutions": cfg.Institutions.Source,
	}).Info("Server started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
