package services

import (
	"context"
	"sync"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/chat"
)

// MockLLMAPI is a mock implementation of LLMService for testing
type MockLLMAPI struct {
	CompleteFunc func(ctx context.Context, req chat.CompletionRequest) (string, error)

	// Track calls for testing
	CompleteCalls []chat.CompletionRequest

	mu sync.Mutex // protects all fields above
}

var _ LLMService = (*MockLLMAPI)(nil)

// NewMockLLMAPI creates a new mock LLM service
func NewMockLLMAPI() *MockLLMAPI {
	return &MockLLMAPI{
		CompleteCalls: make([]chat.CompletionRequest, 0),
	}
}

func (m *MockLLMAPI) Name() string {
	return "mock"
}

// Complete mocks response generation
func (m *MockLLMAPI) Complete(ctx context.Context, req chat.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.CompleteCalls = append(m.CompleteCalls, req)
	fn := m.CompleteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	// Default behavior - a well-formed scenario
	return `{"description":"Mock scenario","choices":[{"text":"Report it","is_correct":true,"feedback":"Correct.","next_id":null},{"text":"Ignore it","is_correct":false,"feedback":"Wrong.","next_id":null}]}`, nil
}

// SetResponse sets up the mock to return text on Complete
func (m *MockLLMAPI) SetResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteFunc = func(ctx context.Context, req chat.CompletionRequest) (string, error) {
		return text, nil
	}
}

// SetCompleteError sets up the mock to return an error on Complete
func (m *MockLLMAPI) SetCompleteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteFunc = func(ctx context.Context, req chat.CompletionRequest) (string, error) {
		return "", err
	}
}

// Reset clears all call tracking
func (m *MockLLMAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteCalls = make([]chat.CompletionRequest, 0)
}

// GetCalls returns a copy of the call tracking data in a thread-safe way
func (m *MockLLMAPI) GetCalls() []chat.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]chat.CompletionRequest, len(m.CompleteCalls))
	copy(calls, m.CompleteCalls)
	return calls
}
