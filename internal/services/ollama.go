package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/chat"
)

const ollamaBaseURL = "http://localhost:11434"

// OllamaService implements LLMService for a local Ollama server. It needs
// no API key.
type OllamaService struct {
	client  *api.Client
	baseURL string
	logger  *slog.Logger
}

var _ LLMService = (*OllamaService)(nil)

// NewOllamaService creates a new Ollama service instance. baseURL may carry
// a trailing /v1 from OpenAI-style configuration; the native API lives at
// the root.
func NewOllamaService(baseURL string, timeout time.Duration, logger *slog.Logger) (*OllamaService, error) {
	if baseURL == "" {
		baseURL = ollamaBaseURL
	}
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama base URL %q: %w", baseURL, err)
	}

	return &OllamaService{
		client:  api.NewClient(parsed, &http.Client{Timeout: timeout}),
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

func (s *OllamaService) Name() string {
	return "ollama"
}

// Complete sends a non-streaming chat request.
func (s *OllamaService) Complete(ctx context.Context, req chat.CompletionRequest) (string, error) {
	messages := make([]api.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = api.Message{Role: m.Role, Content: m.Content}
	}

	stream := false
	chatReq := &api.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
			"num_predict": req.MaxTokens,
		},
	}
	if req.Schema != nil {
		format, err := json.Marshal(req.Schema.Schema)
		if err != nil {
			return "", fmt.Errorf("failed to marshal response schema: %w", err)
		}
		chatReq.Format = format
	}

	s.logger.Debug("Making Ollama chat request",
		"base_url", s.baseURL,
		"model", req.Model,
		"message_count", len(messages))

	var content strings.Builder
	err := s.client.Chat(ctx, chatReq, func(r api.ChatResponse) error {
		content.WriteString(r.Message.Content)
		return nil
	})
	if err != nil {
		s.logger.Error("Ollama chat request failed", "model", req.Model, "error", err)
		return "", fmt.Errorf("ollama chat request failed: %w", err)
	}

	return content.String(), nil
}
