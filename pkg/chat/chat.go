package chat

import (
	"fmt"
)

const (
	ChatRoleUser   = "user"
	ChatRoleAgent  = "assistant"
	ChatRoleSystem = "system"
)

// ChatMessage is a single message sent to a text-generation service.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// CompletionRequest is one request to a generation service. Every provider
// returns a single text response for it.
type CompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`

	// Schema optionally describes the JSON object the response should be.
	// Providers without structured output support ignore it.
	Schema *ResponseSchema `json:"schema,omitempty"`
}

// ResponseSchema is a named JSON schema for structured responses.
type ResponseSchema struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
}

// NewPromptRequest builds a request carrying a single user prompt.
func NewPromptRequest(model, prompt string, temperature float64, maxTokens int) CompletionRequest {
	return CompletionRequest{
		Model:       model,
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

func (r *CompletionRequest) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("no messages provided")
	}
	for i, m := range r.Messages {
		if m.Content == "" {
			return fmt.Errorf("message %d cannot be empty", i)
		}
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max tokens cannot be negative")
	}
	return nil
}
