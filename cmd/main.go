package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairwaycup/matchplay/cache"
	"github.com/fairwaycup/matchplay/config"
	"github.com/fairwaycup/matchplay/db"
	"github.com/fairwaycup/matchplay/handlers"
	"github.com/fairwaycup/matchplay/live"
	"github.com/fairwaycup/matchplay/repositories"
	"github.com/fairwaycup/matchplay/routes"
	"github.com/fairwaycup/matchplay/scheduler"
	"github.com/fairwaycup/matchplay/services"
	"github.com/fairwaycup/matchplay/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	snapshotStore, err := cache.NewBoltStore(cfg.CachePath)
	if err != nil {
		logger.Error("failed to open leaderboard cache", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := snapshotStore.Close(); err != nil {
			logger.Error("failed to close leaderboard cache", slog.Any("error", err))
		}
	}()

	// Export archiving degrades gracefully when R2 is not configured.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewR2Uploader(context.Background(), storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize object storage", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("object storage initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("object storage not configured, export archiving disabled")
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()

	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchResultRepository(dbConn)
	tiebreakRepo := repositories.NewPostgresTiebreakRepository(dbConn)
	bracketRepo := repositories.NewPostgresBracketRepository(dbConn)
	predictionRepo := repositories.NewPostgresPredictionRepository(dbConn)
	finalResultRepo := repositories.NewPostgresFinalResultRepository(dbConn)

	authService, err := services.NewAuthService(cfg.TournamentPassword, cfg.AdminPassword, cfg.JWTSecretKey)
	if err != nil {
		logger.Error("failed to initialize auth service", slog.Any("error", err))
		os.Exit(1)
	}
	standingsService := services.NewStandingsService(dbConn, playerRepo, matchRepo, tiebreakRepo, wsHub, logger)
	bracketService := services.NewBracketService(dbConn, bracketRepo, finalResultRepo, standingsService, cfg.BracketPairing, wsHub, logger)
	predictionService := services.NewPredictionService(predictionRepo, finalResultRepo, bracketRepo, snapshotStore, wsHub, logger)
	exportService := services.NewExportService(matchRepo, bracketRepo, uploader, logger)

	refresher, err := scheduler.New(cfg.LeaderboardCron, predictionService, logger)
	if err != nil {
		logger.Error("failed to initialize leaderboard scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	refresher.Start()
	defer refresher.Stop()
	logger.Info("leaderboard scheduler started", slog.String("cron", cfg.LeaderboardCron))

	router := routes.InitRoutes(routes.Handlers{
		Auth:       handlers.NewAuthHandler(authService),
		Standings:  handlers.NewStandingsHandler(standingsService),
		Bracket:    handlers.NewBracketHandler(bracketService),
		Prediction: handlers.NewPredictionHandler(predictionService),
		Export:     handlers.NewExportHandler(exportService),
		Simulation: handlers.NewSimulationHandler(),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, logger),
	}, cfg.JWTSecretKey)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
