package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         string     `env:"PORT" envDefault:"8080"`
	Environment  string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName string     `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel     slog.Level `env:"-"`

	ScenariosFile  string   `env:"SCENARIOS_FILE" envDefault:"./data/scenarios.json"`
	EntryIDs       []string `env:"ENTRY_IDS" envDefault:"1,4" envSeparator:","`
	LenientLoad    bool     `env:"LENIENT_LOAD" envDefault:"false"`
	WatchScenarios bool     `env:"WATCH_SCENARIOS" envDefault:"false"`

	GenerationEnabled     bool          `env:"GENERATION_ENABLED" envDefault:"true"`
	LLMProvider           string        `env:"LLM_PROVIDER" envDefault:"xai"`
	ModelName             string        `env:"MODEL_NAME" envDefault:"grok-3-mini"`
	LLMBaseURL            string        `env:"LLM_BASE_URL"`
	GenerationTemperature float64       `env:"GENERATION_TEMPERATURE" envDefault:"0.7"`
	GenerationMaxTokens   int           `env:"GENERATION_MAX_TOKENS" envDefault:"300"`
	GenerationTimeout     time.Duration `env:"GENERATION_TIMEOUT" envDefault:"30s"`

	XAIAPIKey       string `env:"XAI_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	VeniceAPIKey    string `env:"VENICE_API_KEY"`

	SessionStore string        `env:"SESSION_STORE" envDefault:"memory"`
	RedisURL     string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"1h"`
}

// Load reads configuration from the environment. Values in a .env file in
// the working directory are used for variables that are not already set.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads configuration from the environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))
	cfg.EntryIDs = cleanIDs(cfg.EntryIDs)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.EntryIDs) == 0 {
		errs = append(errs, errors.New("ENTRY_IDS must name at least one scenario"))
	}
	switch c.LLMProvider {
	case "xai", "openai", "anthropic", "venice", "ollama", "none":
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER %q is not supported (xai, openai, anthropic, venice, ollama, none)", c.LLMProvider))
	}
	switch c.SessionStore {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE %q is not supported (memory, redis)", c.SessionStore))
	}
	if c.GenerationMaxTokens < 0 {
		errs = append(errs, errors.New("GENERATION_MAX_TOKENS must not be negative"))
	}
	return errors.Join(errs...)
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	switch c.LLMProvider {
	case "xai":
		return c.XAIAPIKey
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	case "venice":
		return c.VeniceAPIKey
	default:
		return ""
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
