package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mkageyama/grimoire-merchant/internal/config"
	"github.com/mkageyama/grimoire-merchant/internal/handlers"
	"github.com/mkageyama/grimoire-merchant/internal/logger"
	"github.com/mkageyama/grimoire-merchant/internal/middleware"
	"github.com/mkageyama/grimoire-merchant/internal/session"
	"github.com/mkageyama/grimoire-merchant/internal/storage"
	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
	"github.com/mkageyama/grimoire-merchant/pkg/engine"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Grimoire Merchant API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir)

	cat, err := catalog.Load(cfg.DataDir)
	if err != nil {
		log.Error("Failed to load game catalog", "error", err, "data_dir", cfg.DataDir)
		os.Exit(1)
	}
	log.Info("Game catalog loaded",
		"elements", len(cat.Elements),
		"seasons", len(cat.Seasons),
		"events", len(cat.Events))

	tun := engine.DefaultTuning()
	if cfg.TuningPath != "" {
		tun, err = engine.LoadTuning(cfg.TuningPath)
		if err != nil {
			log.Error("Failed to load tuning", "error", err, "path", cfg.TuningPath)
			os.Exit(1)
		}
		log.Info("Tuning loaded", "path", cfg.TuningPath)
	}

	var store storage.Storage
	if cfg.RedisURL != "" {
		redisStore := storage.NewRedisStorage(cfg.RedisURL, log)
		storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := redisStore.WaitForConnection(storageCtx); err != nil {
			storageCancel()
			log.Error("Failed to connect to storage", "error", err)
			os.Exit(1)
		}
		storageCancel()
		store = redisStore
		log.Info("Using Redis session store", "addr", cfg.RedisURL)
	} else {
		store = storage.NewMemoryStorage()
		log.Info("Using in-memory session store")
	}

	manager := session.NewManager(cat, tun, store, log)

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(store, log))
	mux.Handle("/v1/catalog", handlers.NewCatalogHandler(cat, log))

	sessionHandler := handlers.NewSessionHandler(manager, log)
	watchHandler := handlers.NewWatchHandler(manager, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.HandleFunc("/v1/sessions/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/watch") {
			watchHandler.ServeHTTP(w, r)
			return
		}
		sessionHandler.ServeHTTP(w, r)
	})

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     middleware.Logger(log, mux),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	manager.Shutdown(shutdownCtx)

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
