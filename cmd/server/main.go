package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Terence890/Nebula-Stream/api"
	"github.com/Terence890/Nebula-Stream/config"
	"github.com/Terence890/Nebula-Stream/handlers"
	"github.com/Terence890/Nebula-Stream/internal/database"
	"github.com/Terence890/Nebula-Stream/services/accounts"
	"github.com/Terence890/Nebula-Stream/services/history"
	"github.com/Terence890/Nebula-Stream/services/metadata"
	"github.com/Terence890/Nebula-Stream/services/profiles"
	"github.com/Terence890/Nebula-Stream/services/sessions"
	"github.com/Terence890/Nebula-Stream/services/watchlist"
	"github.com/Terence890/Nebula-Stream/utils"
)

func main() {
	var configPath string
	var warm bool
	flag.StringVar(&configPath, "config", os.Getenv("NEBULA_CONFIG"), "path to a YAML or JSON settings file")
	flag.BoolVar(&warm, "warm", true, "prefetch the home shelves into the metadata cache on start")
	flag.Parse()

	settings, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := settings.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logFile := setupLogging(settings)
	if logFile != nil {
		defer logFile.Close()
	}

	secret, err := settings.EnsureJWTSecret()
	if err != nil {
		log.Fatalf("failed to prepare jwt secret: %v", err)
	}

	db, err := database.NewDB(database.Config{
		Driver:       settings.Database.Driver,
		DatabasePath: settings.Database.URL,
	})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	accountsSvc, err := accounts.NewService(db.Accounts)
	if err != nil {
		log.Fatalf("failed to create accounts service: %v", err)
	}
	sessionsSvc, err := sessions.NewService(db.Sessions, secret, settings.Auth.SessionDuration)
	if err != nil {
		log.Fatalf("failed to create sessions service: %v", err)
	}
	profilesSvc, err := profiles.NewService(db.Profiles)
	if err != nil {
		log.Fatalf("failed to create profiles service: %v", err)
	}
	watchlistSvc, err := watchlist.NewService(db.Watchlist)
	if err != nil {
		log.Fatalf("failed to create watchlist service: %v", err)
	}
	historySvc, err := history.NewService(db.WatchHistory)
	if err != nil {
		log.Fatalf("failed to create history service: %v", err)
	}
	metadataSvc := metadata.NewService(metadata.Config{
		APIKey:        settings.TMDB.APIKey,
		BaseURL:       settings.TMDB.BaseURL,
		Language:      settings.TMDB.Language,
		CacheDir:      filepath.Join(settings.Server.DataDir, "cache"),
		CacheTTLHours: settings.TMDB.CacheTTLHours,
		Demo:          settings.TMDB.Demo,
	})

	limiter := api.PerMinute(settings.Auth.LoginRatePerMinute)
	defer limiter.Stop()

	router := utils.NewRouter(settings.Server.CORSOrigins)
	handlers.Register(router, handlers.Routes{
		Auth:        handlers.NewAuthHandler(accountsSvc, sessionsSvc),
		Profiles:    handlers.NewProfilesHandler(profilesSvc),
		Titles:      handlers.NewTitlesHandler(metadataSvc),
		Watchlist:   handlers.NewWatchlistHandler(watchlistSvc),
		History:     handlers.NewHistoryHandler(historySvc),
		Version:     handlers.NewVersionHandler(),
		Sessions:    sessionsSvc,
		Ownership:   profilesSvc,
		AuthLimiter: limiter,
		Metrics:     api.NewMetrics(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessionsSvc.RunCleanup(ctx, time.Hour)
	if warm {
		go metadataSvc.Warm(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + settings.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("[server] NebulaStream %s listening on :%s (db=%s, demo=%v)",
			handlers.BackendVersion(), settings.Server.Port, settings.Database.Driver, settings.TMDB.Demo)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-done
	log.Println("[server] shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] graceful shutdown failed: %v", err)
		_ = srv.Close()
	}
	log.Println("[server] stopped")
}

// setupLogging tees the standard logger into a rotating file under the data
// directory unless logging.file is "-".
func setupLogging(settings config.Settings) *lumberjack.Logger {
	path := settings.Logging.File
	if path == "-" {
		return nil
	}
	if path == "" {
		path = filepath.Join(settings.Server.DataDir, "logs", "server.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Printf("[server] log file disabled: %v", err)
		return nil
	}
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    settings.Logging.MaxSizeMB,
		MaxBackups: settings.Logging.MaxBackups,
		MaxAge:     settings.Logging.MaxAgeDays,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return rotator
}
