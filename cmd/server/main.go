package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frame-monitor/internal/bookinfo"
	"frame-monitor/internal/config"
	"frame-monitor/internal/database"
	"frame-monitor/internal/handlers"
	"frame-monitor/internal/logger"
	"frame-monitor/internal/repositories"
	"frame-monitor/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, envLoaded := config.Load()

	logger.Init(cfg.Environment, cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()
	if !envLoaded {
		logger.Info("No .env file found, using system defaults")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// The package helpers skip one frame; components log directly.
	log := logger.Get().WithOptions(zap.AddCallerSkip(-1))

	for _, dir := range []string{cfg.ScreenshotDir, cfg.CoverDir} {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			logger.Fatal("Failed to create directory", logger.String("dir", dir), logger.Err(err))
		}
	}

	db, err := database.Open(cfg.DBName)
	if err != nil {
		logger.Fatal("Failed to connect to database", logger.String("db", cfg.DBName), logger.Err(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn("Failed to close database", logger.Err(err))
		}
	}()

	repos := repositories.New(cfg.ScreenshotDir)
	fetcher := bookinfo.NewFetcher(cfg.OpenBDURL, cfg.HTTPTimeout)

	monitor := handlers.NewMonitorHandler(
		services.NewRecordService(db, repos, log),
		services.NewFrameService(db, repos, log),
		log,
	)
	books := handlers.NewBookHandler(
		services.NewBookService(db, repos, fetcher, cfg.CoverDir, cfg.NoImagePath, log),
		log,
	)

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           handlers.NewRouter(monitor, books, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server running", logger.String("addr", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped", logger.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", logger.Err(err))
	}
}
