package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/chat"
)

func TestNewAnthropicService(t *testing.T) {
	apiKey := "test-api-key"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAnthropicService(apiKey, log)

	if service.apiKey != apiKey {
		t.Errorf("Expected API key %s, got %s", apiKey, service.apiKey)
	}

	if service.baseURL != anthropicBaseURL {
		t.Errorf("Expected base URL %s, got %s", anthropicBaseURL, service.baseURL)
	}

	if service.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
}

func TestAnthropicService_ExtractSystemMessage(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-key", log)

	tests := []struct {
		name                   string
		messages               []chat.ChatMessage
		expectedSystem         string
		expectedNonSystemCount int
	}{
		{
			name: "single system message",
			messages: []chat.ChatMessage{
				{Role: chat.ChatRoleSystem, Content: "You write help desk scenarios."},
				{Role: chat.ChatRoleUser, Content: "Write one."},
			},
			expectedSystem:         "You write help desk scenarios.",
			expectedNonSystemCount: 1,
		},
		{
			name: "multiple system messages",
			messages: []chat.ChatMessage{
				{Role: chat.ChatRoleSystem, Content: "You write help desk scenarios."},
				{Role: chat.ChatRoleUser, Content: "Write one."},
				{Role: chat.ChatRoleSystem, Content: "Respond with JSON."},
			},
			expectedSystem:         "You write help desk scenarios.\n\nRespond with JSON.",
			expectedNonSystemCount: 1,
		},
		{
			name: "no system messages",
			messages: []chat.ChatMessage{
				{Role: chat.ChatRoleUser, Content: "Write one."},
			},
			expectedSystem:         "",
			expectedNonSystemCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			systemPrompt, nonSystemMessages := service.splitChatMessages(tt.messages)

			if systemPrompt != tt.expectedSystem {
				t.Errorf("Expected system prompt '%s', got '%s'", tt.expectedSystem, systemPrompt)
			}

			if len(nonSystemMessages) != tt.expectedNonSystemCount {
				t.Errorf("Expected %d non-system messages, got %d", tt.expectedNonSystemCount, len(nonSystemMessages))
			}

			for _, msg := range nonSystemMessages {
				if msg.Role == chat.ChatRoleSystem {
					t.Error("Found system message in non-system messages")
				}
			}
		})
	}
}

func TestAnthropicService_Complete(t *testing.T) {
	var got AnthropicChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("Expected path /messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header, got %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("Expected anthropic-version header, got %q", r.Header.Get("anthropic-version"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude","content":[{"type":"text","text":"{\"description\":"},{"type":"text","text":"\"x\"}"}]}`))
	}))
	defer server.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-key", log)
	service.baseURL = server.URL

	text, err := service.Complete(context.Background(), chat.NewPromptRequest("claude-test", "Write one.", 0.7, 300))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != `{"description":"x"}` {
		t.Errorf("Expected concatenated text blocks, got %q", text)
	}
	if got.Model != "claude-test" || got.MaxTokens != 300 {
		t.Errorf("Unexpected request: %+v", got)
	}
	if got.Temperature == nil || *got.Temperature != 0.7 {
		t.Errorf("Expected temperature 0.7, got %v", got.Temperature)
	}
}

func TestAnthropicService_CompleteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("bad-key", log)
	service.baseURL = server.URL

	_, err := service.Complete(context.Background(), chat.NewPromptRequest("claude-test", "Write one.", 0.7, 300))
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("Expected status in error, got %v", err)
	}
}

func TestAnthropicChatRequestStructure(t *testing.T) {
	temp := 0.7
	req := AnthropicChatRequest{
		Model:       "claude-test",
		MaxTokens:   1024,
		Temperature: &temp,
		Messages: []chat.ChatMessage{
			{Role: "user", Content: "Hello"},
		},
		System: "You write help desk scenarios.",
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	var unmarshaled map[string]any
	if err := json.Unmarshal(data, &unmarshaled); err != nil {
		t.Fatalf("Failed to unmarshal request: %v", err)
	}

	if unmarshaled["system"] != "You write help desk scenarios." {
		t.Errorf("Expected system prompt to be serialized, got %v", unmarshaled["system"])
	}
	if _, ok := unmarshaled["stream"]; ok {
		t.Error("Expected stream to be omitted when false")
	}
}
