package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/chat"
)

// ErrMissingAPIKey is returned when a provider is selected without its credential.
var ErrMissingAPIKey = errors.New("missing API key")

// LLMService defines the interface for interacting with a text-generation service
type LLMService interface {
	// Name identifies the provider in logs and metrics
	Name() string

	// Complete sends one request and returns the raw text of the response
	Complete(ctx context.Context, req chat.CompletionRequest) (string, error)
}

// ProviderConfig selects and configures an LLMService.
type ProviderConfig struct {
	Provider string // xai, openai, anthropic, venice, ollama
	APIKey   string
	BaseURL  string // optional override
	Timeout  time.Duration
}

// NewLLMService builds the configured provider.
func NewLLMService(cfg ProviderConfig, logger *slog.Logger) (LLMService, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	provider := strings.ToLower(cfg.Provider)
	if provider == "ollama" {
		svc, err := NewOllamaService(cfg.BaseURL, cfg.Timeout, logger)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %q", ErrMissingAPIKey, provider)
	}

	switch provider {
	case "xai":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = xaiBaseURL
		}
		return NewOpenAIService("xai", cfg.APIKey, baseURL, cfg.Timeout, logger), nil
	case "openai":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = openAIBaseURL
		}
		return NewOpenAIService("openai", cfg.APIKey, baseURL, cfg.Timeout, logger), nil
	case "anthropic":
		svc := NewAnthropicService(cfg.APIKey, logger)
		svc.httpClient.Timeout = cfg.Timeout
		if cfg.BaseURL != "" {
			svc.baseURL = cfg.BaseURL
		}
		return svc, nil
	case "venice":
		svc := NewVeniceService(cfg.APIKey)
		svc.httpClient.Timeout = cfg.Timeout
		if cfg.BaseURL != "" {
			svc.baseURL = cfg.BaseURL
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q (supported: xai, openai, anthropic, venice, ollama)", cfg.Provider)
	}
}
