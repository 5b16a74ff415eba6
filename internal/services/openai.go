package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/chat"
)

const (
	xaiBaseURL    = "https://api.x.ai/v1"
	openAIBaseURL = "https://api.openai.com/v1"
)

// OpenAIService implements LLMService for any OpenAI-compatible chat
// completions API. xAI (Grok) is served through it with a different base URL.
type OpenAIService struct {
	name   string
	client openai.Client
	logger *slog.Logger
}

var _ LLMService = (*OpenAIService)(nil)

// NewOpenAIService creates a client for an OpenAI-compatible endpoint.
func NewOpenAIService(name, apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *OpenAIService {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(0),
	)
	return &OpenAIService{
		name:   name,
		client: client,
		logger: logger,
	}
}

func (o *OpenAIService) Name() string {
	return o.name
}

// Complete sends a chat completion request and returns the first choice's text.
func (o *OpenAIService) Complete(ctx context.Context, req chat.CompletionRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    toOpenAIMessages(req.Messages),
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}

	o.logger.Debug("Completion received",
		"provider", o.name,
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []chat.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case chat.ChatRoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case chat.ChatRoleAgent:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
