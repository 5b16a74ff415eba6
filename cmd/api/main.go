package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/app"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/config"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/handlers"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/logger"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/middleware"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/source"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting help desk simulator API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"scenarios_file", cfg.ScenariosFile,
		"entry_ids", cfg.EntryIDs,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	store, err := app.LoadStore(cfg, log)
	if err != nil {
		log.Error("Failed to load scenarios", "error", err, "kind", scenario.KindOf(err))
		os.Exit(1)
	}

	sim := app.NewSimulator(cfg, store, log)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	sessions, err := app.NewSessionStore(startupCtx, cfg, log)
	startupCancel()
	if err != nil {
		log.Error("Failed to connect to session store", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if cfg.WatchScenarios {
		go func() {
			if err := source.Watch(ctx, cfg.ScenariosFile, store, source.DefaultDebounce, log); err != nil {
				log.Error("Scenario watcher stopped", "error", err)
			}
		}()
	}

	mux := http.NewServeMux()

	mux.Handle("/health", handlers.NewHealthHandler(sessions, store, log))
	mux.Handle("/metrics", promhttp.Handler())

	scenarioHandler := handlers.NewScenarioHandler(store, log)
	mux.Handle("/v1/scenarios", scenarioHandler)
	mux.Handle("/v1/scenarios/", scenarioHandler)

	sessionHandler := handlers.NewSessionHandler(sim, sessions, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(log)(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := sessions.Close(); err != nil {
		log.Error("Error closing session store", "error", err)
	}

	log.Info("Server exited")
}
