package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRedisStorage(t *testing.T, ttl time.Duration) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := NewRedisStorage(mr.Addr(), ttl, testLogger())
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

// sessionStoreContract runs the behaviour every SessionStore must share.
func sessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	s := state.NewSession(state.SessionState{ActiveScenarioID: "1"})
	require.NoError(t, store.SaveSession(ctx, s))

	loaded, err := store.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, "1", loaded.State.ActiveScenarioID)

	s.Commit(state.Outcome{IsCorrect: true, NextState: state.SessionState{Terminal: true}})
	require.NoError(t, store.SaveSession(ctx, s))

	loaded, err = store.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, loaded.State.Terminal)
	assert.Equal(t, state.Score{Answered: 1, Correct: 1}, loaded.Score)

	missing, err := store.LoadSession(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.DeleteSession(ctx, s.ID))
	loaded, err = store.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStorage(t *testing.T) {
	sessionStoreContract(t, NewMemoryStorage(time.Hour))
}

func TestRedisStorage(t *testing.T) {
	r, _ := newRedisStorage(t, time.Hour)
	sessionStoreContract(t, r)
}

func TestMemoryStorage_Expiry(t *testing.T) {
	m := NewMemoryStorage(time.Minute)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s := state.NewSession(state.SessionState{ActiveScenarioID: "1"})
	require.NoError(t, m.SaveSession(context.Background(), s))

	now = now.Add(30 * time.Second)
	loaded, err := m.LoadSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.NotNil(t, loaded)

	now = now.Add(time.Minute)
	loaded, err = m.LoadSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	m := NewMemoryStorage(0)
	s := state.NewSession(state.SessionState{ActiveScenarioID: "1"})
	require.NoError(t, m.SaveSession(context.Background(), s))

	loaded, err := m.LoadSession(context.Background(), s.ID)
	require.NoError(t, err)
	loaded.State.ActiveScenarioID = "changed"

	again, err := m.LoadSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", again.State.ActiveScenarioID)
}

func TestMemoryStorage_PingError(t *testing.T) {
	m := NewMemoryStorage(0)
	m.SetPingError(errors.New("down"))
	assert.Error(t, m.Ping(context.Background()))
}

func TestRedisStorage_TTL(t *testing.T) {
	r, mr := newRedisStorage(t, 10*time.Minute)
	ctx := context.Background()

	s := state.NewSession(state.SessionState{ActiveScenarioID: "4"})
	require.NoError(t, r.SaveSession(ctx, s))

	key := sessionKeyPrefix + s.ID.String()
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 10*time.Minute, mr.TTL(key))

	mr.FastForward(11 * time.Minute)
	loaded, err := r.LoadSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_CorruptPayload(t *testing.T) {
	r, mr := newRedisStorage(t, time.Hour)
	id := uuid.New()
	require.NoError(t, mr.Set(sessionKeyPrefix+id.String(), "{not json"))

	_, err := r.LoadSession(context.Background(), id)
	assert.Error(t, err)
}

func TestRedisStorage_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	r := NewRedisStorage(mr.Addr(), time.Hour, testLogger())
	defer func() { _ = r.Close() }()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.Error(t, r.Ping(ctx))
	assert.Error(t, r.WaitForConnection(ctx, 2, 10*time.Millisecond))
}
