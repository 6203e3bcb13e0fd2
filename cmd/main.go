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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/markbrown88/pickleball-app-sub002/config"
	"github.com/markbrown88/pickleball-app-sub002/db"
	"github.com/markbrown88/pickleball-app-sub002/handlers"
	"github.com/markbrown88/pickleball-app-sub002/live"
	"github.com/markbrown88/pickleball-app-sub002/repositories"
	"github.com/markbrown88/pickleball-app-sub002/roster"
	api "github.com/markbrown88/pickleball-app-sub002/routes"
	"github.com/markbrown88/pickleball-app-sub002/services"
	"github.com/markbrown88/pickleball-app-sub002/storage"
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
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Snapshot archiving is optional; the service runs fine without R2.
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("schedule snapshot archiving disabled (R2 not configured)")
	}

	hub := live.NewHub()
	go hub.Run()
	logger.Info("scoreboard hub started")

	stopRepo := repositories.NewPostgresStopRepository(dbConn)
	bracketRepo := repositories.NewPostgresBracketRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	lineupRepo := repositories.NewPostgresLineupRepository(dbConn)
	submissionRepo := repositories.NewPostgresSubmissionRepository(dbConn)
	logger.Info("repositories initialized")

	rosterClient := roster.NewClient(cfg.RosterServiceURL)

	scheduleService := services.NewScheduleService(
		dbConn,
		stopRepo,
		bracketRepo,
		teamRepo,
		roundRepo,
		matchRepo,
		gameRepo,
		lineupRepo,
		uploader,
		hub,
		logger,
	)
	lineupService := services.NewLineupService(matchRepo, roundRepo, gameRepo, lineupRepo, rosterClient)
	scoreService := services.NewScoreService(
		dbConn,
		matchRepo,
		roundRepo,
		gameRepo,
		submissionRepo,
		hub,
		logger,
		cfg.TiebreakIncludeOverrides,
	)
	matchService := services.NewMatchService(
		dbConn,
		matchRepo,
		roundRepo,
		gameRepo,
		submissionRepo,
		hub,
		logger,
		cfg.TiebreakIncludeOverrides,
	)
	logger.Info("services initialized")

	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	lineupHandler := handlers.NewLineupHandler(lineupService)
	scoreHandler := handlers.NewScoreHandler(scoreService)
	matchHandler := handlers.NewMatchHandler(matchService)
	scoreboardHandler := handlers.NewScoreboardHandler(hub, stopRepo, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		scheduleHandler,
		lineupHandler,
		scoreHandler,
		matchHandler,
		scoreboardHandler,
	)
	logger.Info("routes configured")

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
		logger.Info("server stopped gracefully")
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
	logger.Info("application exited")
}
