package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/config"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/generator"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/storage"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ScenariosFile:     "../../data/scenarios.json",
		EntryIDs:          []string{"1", "4"},
		GenerationEnabled: true,
		LLMProvider:       "xai",
		ModelName:         "grok-3-mini",
		GenerationTimeout: time.Second,
		SessionStore:      "memory",
		SessionTTL:        time.Hour,
	}
}

func TestLoadStore(t *testing.T) {
	store, err := LoadStore(testConfig(t), testLogger())
	require.NoError(t, err)
	assert.Equal(t, 6, store.Len())

	cfg := testConfig(t)
	cfg.ScenariosFile = filepath.Join(t.TempDir(), "missing.json")
	_, err = LoadStore(cfg, testLogger())
	assert.ErrorIs(t, err, scenario.ErrSourceUnavailable)
}

func TestLoadStore_Lenient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"scenarios": [
	  {"id": "1", "description": "ok", "choices": [{"text": "a", "is_correct": true, "feedback": "f", "next_id": null}]},
	  {"id": "2", "description": "no choices", "choices": []}
	]}`), 0o644))

	cfg := testConfig(t)
	cfg.ScenariosFile = path
	_, err := LoadStore(cfg, testLogger())
	assert.ErrorIs(t, err, scenario.ErrValidation)

	cfg.LenientLoad = true
	store, err := LoadStore(cfg, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestNewSimulator_MissingCredential(t *testing.T) {
	cfg := testConfig(t)
	store, err := LoadStore(cfg, testLogger())
	require.NoError(t, err)

	sim := NewSimulator(cfg, store, testLogger())
	require.True(t, sim.GenerationEnabled())

	st, err := sim.Start()
	require.NoError(t, err)

	after, _, err := sim.Generate(context.Background(), st)
	var genErr *generator.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, generator.CauseMissingCredential, genErr.Cause)
	assert.Equal(t, st, after)
	assert.Equal(t, 6, store.Len())
}

func TestNewSimulator_Disabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.GenerationEnabled = false
	cfg.EntryIDs = []string{"1"}

	store, err := LoadStore(cfg, testLogger())
	require.NoError(t, err)
	sim := NewSimulator(cfg, store, testLogger())
	assert.False(t, sim.GenerationEnabled())

	st, err := sim.Start()
	require.NoError(t, err)
	assert.Equal(t, state.SessionState{ActiveScenarioID: "1"}, st)
}

func TestNewSessionStore(t *testing.T) {
	cfg := testConfig(t)
	sessions, err := NewSessionStore(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStorage{}, sessions)

	mr := miniredis.RunT(t)
	cfg.SessionStore = "redis"
	cfg.RedisURL = mr.Addr()
	sessions, err = NewSessionStore(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	defer func() { _ = sessions.Close() }()
	assert.IsType(t, &storage.RedisStorage{}, sessions)
	assert.NoError(t, sessions.Ping(context.Background()))
}
