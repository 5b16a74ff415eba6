package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/chat"
)

func TestNewVeniceService(t *testing.T) {
	apiKey := "test-api-key"

	service := NewVeniceService(apiKey)

	if service.apiKey != apiKey {
		t.Errorf("Expected apiKey %s, got %s", apiKey, service.apiKey)
	}

	if service.httpClient == nil {
		t.Error("Expected httpClient to be initialized")
	}
}

func TestVeniceService_CompleteWithSchema(t *testing.T) {
	var got VeniceChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"id":"1","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	service := NewVeniceService("test-key")
	service.baseURL = server.URL

	req := chat.NewPromptRequest("venice-test", "Write one.", 0.7, 300)
	req.Schema = &chat.ResponseSchema{Name: "scenario", Schema: map[string]any{"type": "object"}}

	text, err := service.Complete(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "hello" {
		t.Errorf("Expected 'hello', got %q", text)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_schema" {
		t.Fatalf("Expected json_schema response format, got %+v", got.ResponseFormat)
	}
	if got.ResponseFormat.JSONSchema.Name != "scenario" || !got.ResponseFormat.JSONSchema.Strict {
		t.Errorf("Unexpected schema: %+v", got.ResponseFormat.JSONSchema)
	}
	if got.VeniceParameters.EnableWebSearch != "off" {
		t.Errorf("Expected web search off, got %q", got.VeniceParameters.EnableWebSearch)
	}
}

func TestVeniceService_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"1","model":"m","choices":[]}`))
	}))
	defer server.Close()

	service := NewVeniceService("test-key")
	service.baseURL = server.URL

	text, err := service.Complete(context.Background(), chat.NewPromptRequest("m", "x", 0.7, 10))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty text, got %q", text)
	}
}

func TestVeniceService_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"model not found","type":"invalid_request","code":"404"}}`))
	}))
	defer server.Close()

	service := NewVeniceService("test-key")
	service.baseURL = server.URL

	_, err := service.Complete(context.Background(), chat.NewPromptRequest("m", "x", 0.7, 10))
	if err == nil || err.Error() != "API error: model not found" {
		t.Errorf("Expected API error, got %v", err)
	}
}
