package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/engine"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/generator"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/services"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/storage"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) *scenario.Store {
	t.Helper()
	store, err := scenario.Load(map[string]any{
		"scenarios": []any{
			map[string]any{
				"id":          "1",
				"description": "An email asks you to confirm your VPN password.",
				"choices": []any{
					map[string]any{"text": "Report as phishing", "is_correct": true, "feedback": "Correct, it is phishing.", "next_id": "2"},
					map[string]any{"text": "Reply with the password", "is_correct": false, "feedback": "Never send passwords.", "next_id": nil},
				},
			},
			map[string]any{
				"id":          "2",
				"description": "Security thanks you and asks for the headers.",
				"choices": []any{
					map[string]any{"text": "Forward as attachment", "is_correct": true, "feedback": "Good.", "next_id": "missing"},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("Failed to load test store: %v", err)
	}
	return store
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func do(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type testServer struct {
	store    *scenario.Store
	sessions *storage.MemoryStorage
	llm      *services.MockLLMAPI
	handler  *SessionHandler
}

func newTestServer(t *testing.T, withGenerator bool) *testServer {
	t.Helper()
	store := testStore(t)
	llm := services.NewMockLLMAPI()
	opts := []engine.Option{engine.WithPicker(func(int) int { return 0 })}
	if withGenerator {
		opts = append(opts, engine.WithGenerator(generator.New(llm, store, generator.Options{}, testLogger())))
	}
	sim := engine.New(store, []string{"1"}, testLogger(), opts...)
	sessions := storage.NewMemoryStorage(0)
	return &testServer{
		store:    store,
		sessions: sessions,
		llm:      llm,
		handler:  NewSessionHandler(sim, sessions, testLogger()),
	}
}

func (s *testServer) create(t *testing.T) SessionResponse {
	t.Helper()
	rr := do(s.handler, http.MethodPost, "/v1/sessions", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	return decode[SessionResponse](t, rr)
}
