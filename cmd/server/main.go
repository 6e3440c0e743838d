package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alimgiray/streakcard/internal/handlers"
	"github.com/alimgiray/streakcard/internal/models"
	"github.com/alimgiray/streakcard/internal/repositories"
	"github.com/alimgiray/streakcard/internal/services"
	"github.com/alimgiray/streakcard/internal/workers"
	"github.com/alimgiray/streakcard/pkg/config"
	"github.com/alimgiray/streakcard/pkg/database"
	"github.com/alimgiray/streakcard/pkg/logger"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig

	logger.Init(cfg.Server.LogLevel)
	gin.SetMode(cfg.Server.Mode)

	httpTimeout := time.Duration(cfg.Stats.HTTPTimeout) * time.Second

	// Themes
	var extraPresets map[string]models.Theme
	if cfg.Theme.PresetsFile != "" {
		presets, err := services.LoadPresetsFile(cfg.Theme.PresetsFile)
		if err != nil {
			logger.Fatalf("Failed to load theme presets: %v", err)
		}
		extraPresets = presets
	}
	themeService := services.NewThemeService(extraPresets)

	// Statistics source
	profileService, err := services.NewProfileService(cfg.GitHub.Token, cfg.GitHub.BaseURL, httpTimeout)
	if err != nil {
		logger.Fatalf("Failed to create GitHub client: %v", err)
	}
	var statsSource services.StatsFetcher = profileService
	sourceName := fmt.Sprintf("GitHub API (authenticated: %t)", cfg.GitHub.Token != "")
	if cfg.Stats.APIURL != "" {
		remote := services.NewStatsService(cfg.Stats.APIURL, cfg.Stats.UserAgent, httpTimeout)
		statsSource = remote
		sourceName = remote.BaseURL()
	}
	avatarService := services.NewAvatarService(cfg.Stats.UserAgent, httpTimeout, int64(cfg.Avatar.MaxBytes), cfg.Avatar.Size)

	// Usage recording
	workerManager := workers.NewWorkerManager()
	var recorder services.Recorder
	var usageService *services.UsageService
	var db *sql.DB
	if cfg.Usage.DBPath != "" {
		db, err = database.Open(cfg.Usage.DBPath)
		if err != nil {
			logger.Fatalf("Failed to initialize database: %v", err)
		}
		renderRepo := repositories.NewCardRenderRepository(db)
		usageWorker := workers.NewUsageWorker("usage-1", renderRepo, cfg.Usage.BufferSize)
		workerManager.Add(usageWorker)
		recorder = usageWorker
		usageService = services.NewUsageService(renderRepo)
	}

	cardService := services.NewCardService(statsSource, avatarService, themeService, recorder)

	router := handlers.NewRouter(handlers.Handlers{
		Card:     handlers.NewCardHandler(cardService, cfg.Card.CacheMaxAge),
		Streak:   handlers.NewStreakHandler(profileService),
		Theme:    handlers.NewThemeHandler(themeService, services.NewReadmeService(themeService), cfg.Server.PublicURL),
		Usage:    handlers.NewUsageHandler(usageService),
		Health:   handlers.NewHealthHandler(),
		NotFound: handlers.NewNotFoundHandler(),

		UsageToken: cfg.Usage.AdminToken,
	})

	// Start workers
	if err := workerManager.StartAll(); err != nil {
		logger.Fatalf("Failed to start workers: %v", err)
	}

	// Setup server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Server starting on %s (stats source: %s)", server.Addr, sourceName)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	workerManager.StopAll()
	if db != nil {
		db.Close()
	}
	logger.Infof("Server stopped")
}
