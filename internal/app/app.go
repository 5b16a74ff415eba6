// Package app builds the simulator's components from configuration.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/config"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/engine"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/generator"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/services"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/source"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/storage"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

// LoadStore reads the configured scenario file and logs what a lenient
// load skipped and any graph issues.
func LoadStore(cfg *config.Config, log *slog.Logger) (*scenario.Store, error) {
	store, report, err := source.LoadStore(cfg.ScenariosFile, scenario.LoadOptions{Lenient: cfg.LenientLoad})
	if err != nil {
		return nil, err
	}
	for _, skipped := range report.Skipped {
		log.Warn("Skipped invalid scenario", "error", skipped)
	}
	for _, issue := range scenario.Lint(store, cfg.EntryIDs) {
		log.Warn("Scenario graph issue", "type", issue.Type, "scenario_id", issue.ScenarioID, "message", issue.Message)
	}
	log.Info("Scenarios loaded", "path", cfg.ScenariosFile, "count", store.Len())
	return store, nil
}

// NewSimulator builds the Simulator, wiring the generator when generation is
// enabled. A missing credential keeps generation available but every request
// fails with a GenerationError instead of stopping startup.
func NewSimulator(cfg *config.Config, store *scenario.Store, log *slog.Logger, opts ...engine.Option) *engine.Simulator {
	if gen := newGenerator(cfg, store, log); gen != nil {
		opts = append([]engine.Option{engine.WithGenerator(gen)}, opts...)
	}
	return engine.New(store, cfg.EntryIDs, log, opts...)
}

func newGenerator(cfg *config.Config, store *scenario.Store, log *slog.Logger) *generator.Generator {
	if !cfg.GenerationEnabled || cfg.LLMProvider == "none" {
		log.Info("Scenario generation disabled")
		return nil
	}

	llm, err := services.NewLLMService(services.ProviderConfig{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.APIKey(),
		BaseURL:  cfg.LLMBaseURL,
		Timeout:  cfg.GenerationTimeout,
	}, log)
	if err != nil {
		log.Warn("Generation service unavailable", "error", err)
		llm = nil
	}

	return generator.New(llm, store, generator.Options{
		Model:       cfg.ModelName,
		Temperature: cfg.GenerationTemperature,
		MaxTokens:   cfg.GenerationMaxTokens,
		Timeout:     cfg.GenerationTimeout,
		UseSchema:   cfg.LLMProvider == "venice" || cfg.LLMProvider == "ollama",
	}, log)
}

// NewSessionStore returns the configured session store, waiting for Redis
// to come up when it is selected.
func NewSessionStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.SessionStore, error) {
	if cfg.SessionStore != "redis" {
		log.Info("Using in-memory session store", "ttl", cfg.SessionTTL)
		return storage.NewMemoryStorage(cfg.SessionTTL), nil
	}

	redisStore := storage.NewRedisStorage(cfg.RedisURL, cfg.SessionTTL, log)
	if err := redisStore.WaitForConnection(ctx, 30, 2*time.Second); err != nil {
		_ = redisStore.Close()
		return nil, err
	}
	log.Info("Using Redis session store", "addr", cfg.RedisURL, "ttl", cfg.SessionTTL)
	return redisStore, nil
}
