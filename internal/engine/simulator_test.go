package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/generator"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/services"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/state"
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
				"description": "A caller asks you to reset the CEO's password.",
				"choices": []any{
					map[string]any{"text": "Verify their identity", "is_correct": true, "feedback": "Always verify.", "next_id": "2"},
					map[string]any{"text": "Reset it", "is_correct": false, "feedback": "Social engineering.", "next_id": nil},
				},
			},
			map[string]any{
				"id":          "2",
				"description": "The caller hangs up.",
				"choices": []any{
					map[string]any{"text": "Log the incident", "is_correct": true, "feedback": "Good.", "next_id": nil},
				},
			},
			map[string]any{
				"id":          "4",
				"description": "A USB stick is left at reception.",
				"choices": []any{
					map[string]any{"text": "Hand it to security", "is_correct": true, "feedback": "Good.", "next_id": nil},
				},
			},
		},
	})
	require.NoError(t, err)
	return store
}

func first(n int) int { return 0 }
func last(n int) int  { return n - 1 }

func TestSimulator_FullWalk(t *testing.T) {
	sim := New(testStore(t), []string{"1", "4"}, testLogger(), WithPicker(first))

	st, err := sim.Start()
	require.NoError(t, err)
	assert.Equal(t, "1", st.ActiveScenarioID)

	sc, err := sim.Current(st)
	require.NoError(t, err)
	assert.Len(t, sc.Choices, 2)

	out, err := sim.Submit(st, "Verify their identity")
	require.NoError(t, err)
	assert.True(t, out.IsCorrect)
	assert.Equal(t, "2", out.NextState.ActiveScenarioID)

	out, err = sim.Submit(out.NextState, "Log the incident")
	require.NoError(t, err)
	assert.True(t, out.NextState.Terminal)

	_, err = sim.Current(out.NextState)
	assert.ErrorIs(t, err, scenario.ErrTerminal)

	restarted, err := sim.Restart()
	require.NoError(t, err)
	assert.False(t, restarted.Terminal)
}

func TestSimulator_SimpleVariant(t *testing.T) {
	sim := New(testStore(t), []string{"4"}, testLogger(), WithPicker(last))
	assert.False(t, sim.GenerationEnabled())

	st, err := sim.Start()
	require.NoError(t, err)
	assert.Equal(t, "4", st.ActiveScenarioID)

	after, _, err := sim.Generate(context.Background(), st)
	assert.ErrorIs(t, err, scenario.ErrGeneration)
	assert.Equal(t, st, after)

	var genErr *generator.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, CauseDisabled, genErr.Cause)
}

func TestSimulator_GenerateActivatesScenario(t *testing.T) {
	store := testStore(t)
	llm := services.NewMockLLMAPI()
	gen := generator.New(llm, store, generator.Options{}, testLogger())
	sim := New(store, []string{"1", "4"}, testLogger(), WithGenerator(gen), WithPicker(first))
	require.True(t, sim.GenerationEnabled())

	st, err := sim.Start()
	require.NoError(t, err)

	next, sc, err := sim.Generate(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, sc.ID, next.ActiveScenarioID)
	assert.Equal(t, 4, store.Len())

	current, err := sim.Current(next)
	require.NoError(t, err)
	assert.Equal(t, sc, current)

	// generated scenarios are never entry points
	for i := 0; i < 10; i++ {
		st, err := sim.Start()
		require.NoError(t, err)
		assert.Contains(t, []string{"1", "4"}, st.ActiveScenarioID)
	}
}

func TestSimulator_GenerateFailureLeavesStateUnchanged(t *testing.T) {
	store := testStore(t)
	llm := services.NewMockLLMAPI()
	llm.SetResponse("")
	gen := generator.New(llm, store, generator.Options{}, testLogger())
	sim := New(store, []string{"1"}, testLogger(), WithGenerator(gen))

	st := state.SessionState{ActiveScenarioID: "1"}
	after, _, err := sim.Generate(context.Background(), st)
	assert.ErrorIs(t, err, scenario.ErrGeneration)
	assert.Equal(t, st, after)
	assert.Equal(t, 3, store.Len())
}

func TestSimulator_Errors(t *testing.T) {
	sim := New(testStore(t), []string{"1"}, testLogger())

	_, err := sim.Submit(state.SessionState{ActiveScenarioID: "1"}, "verify their identity")
	assert.ErrorIs(t, err, scenario.ErrChoiceNotFound)

	_, err = sim.Current(state.SessionState{ActiveScenarioID: "gone"})
	assert.ErrorIs(t, err, scenario.ErrScenarioNotFound)
	assert.Equal(t, scenario.KindNotFound, scenario.KindOf(err))

	empty := New(scenario.NewStore(), []string{"1", "4"}, testLogger())
	_, err = empty.Start()
	assert.ErrorIs(t, err, scenario.ErrEmptyStore)
}
