package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/handlers"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

// apiError is a non-2xx response from the API.
type apiError struct {
	Status int
	Resp   handlers.ErrorResponse
}

func (e *apiError) Error() string {
	if e.Resp.Error == "" {
		return fmt.Sprintf("API returned status %d", e.Status)
	}
	return e.Resp.Error
}

// remoteBackend plays a session against a running API.
type remoteBackend struct {
	client    *http.Client
	baseURL   string
	sessionID uuid.UUID
}

func newRemoteBackend(client *http.Client, baseURL string) *remoteBackend {
	return &remoteBackend{client: client, baseURL: baseURL}
}

func testConnection(ctx context.Context, client *http.Client, baseURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func (b *remoteBackend) Start(ctx context.Context) (handlers.SessionResponse, error) {
	var resp handlers.SessionResponse
	if err := b.do(ctx, http.MethodPost, "/v1/sessions", nil, http.StatusCreated, &resp); err != nil {
		return resp, err
	}
	b.sessionID = resp.ID
	return resp, nil
}

func (b *remoteBackend) Choose(ctx context.Context, text string) (handlers.ChoiceResponse, error) {
	var resp handlers.ChoiceResponse
	if b.sessionID == uuid.Nil {
		return resp, errNoSession
	}
	err := b.do(ctx, http.MethodPost, b.sessionPath("choice"), handlers.ChoiceRequest{Text: text}, http.StatusOK, &resp)
	return resp, err
}

func (b *remoteBackend) Restart(ctx context.Context) (handlers.SessionResponse, error) {
	if b.sessionID == uuid.Nil {
		return b.Start(ctx)
	}
	var resp handlers.SessionResponse
	err := b.do(ctx, http.MethodPost, b.sessionPath("restart"), nil, http.StatusOK, &resp)
	return resp, err
}

func (b *remoteBackend) Generate(ctx context.Context) (handlers.SessionResponse, error) {
	var resp handlers.SessionResponse
	if b.sessionID == uuid.Nil {
		return resp, errNoSession
	}
	err := b.do(ctx, http.MethodPost, b.sessionPath("generate"), nil, http.StatusCreated, &resp)
	return resp, err
}

func (b *remoteBackend) ScenarioCount(ctx context.Context) (int, error) {
	var resp handlers.ScenarioListResponse
	if err := b.do(ctx, http.MethodGet, "/v1/scenarios", nil, http.StatusOK, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (b *remoteBackend) sessionPath(action string) string {
	return fmt.Sprintf("/v1/sessions/%s/%s", b.sessionID, action)
}

func (b *remoteBackend) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		apiErr := &apiError{Status: resp.StatusCode}
		if err := json.Unmarshal(data, &apiErr.Resp); err != nil {
			apiErr.Resp.Error = fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(data))
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// errorKind classifies errors from either backend.
func errorKind(err error) scenario.ErrorKind {
	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.Resp.Kind != "" {
		return apiErr.Resp.Kind
	}
	return scenario.KindOf(err)
}

// restartAvailable reports whether restarting recovers from err.
func restartAvailable(err error) bool {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr.Resp.RestartAvailable
	}
	return errors.Is(err, scenario.ErrScenarioNotFound) || errors.Is(err, scenario.ErrTerminal)
}
