package state

import (
	"fmt"
	"math/rand/v2"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

// SessionState is the whole of a session's navigation state. It is a plain
// value: transitions return a new SessionState and never modify their input.
type SessionState struct {
	ActiveScenarioID string `json:"active_scenario_id,omitempty"`
	Terminal         bool   `json:"terminal"`
}

// Outcome is the result of applying a choice.
type Outcome struct {
	ChosenText string       `json:"chosen_text"`
	IsCorrect  bool         `json:"is_correct"`
	Feedback   string       `json:"feedback"`
	NextState  SessionState `json:"next_state"`
}

// Picker returns an index in [0, n). It is used to choose an entry point.
type Picker func(n int) int

// RandomPicker picks uniformly at random.
func RandomPicker() Picker {
	return rand.IntN
}

// Start picks an entry point uniformly at random among the entry ids that
// resolve in store. Entry ids are an allow-list; other scenarios in the
// store are never chosen.
func Start(store *scenario.Store, entryIDs []string, pick Picker) (SessionState, error) {
	if len(entryIDs) == 0 {
		return SessionState{}, fmt.Errorf("%w: no entry ids configured", scenario.ErrEmptyStore)
	}

	valid := make([]string, 0, len(entryIDs))
	for _, id := range entryIDs {
		if store.Has(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return SessionState{}, fmt.Errorf("%w: none of the entry ids %v resolve", scenario.ErrEmptyStore, entryIDs)
	}

	if pick == nil {
		pick = RandomPicker()
	}
	return SessionState{ActiveScenarioID: valid[pick(len(valid))]}, nil
}

// Restart returns a fresh initial state; the entry point may repeat.
func Restart(store *scenario.Store, entryIDs []string, pick Picker) (SessionState, error) {
	return Start(store, entryIDs, pick)
}

// Current resolves the active scenario. A reference that no longer resolves
// yields scenario.ErrScenarioNotFound, which callers should treat as
// recoverable and offer a restart.
func Current(store *scenario.Store, st SessionState) (scenario.Scenario, error) {
	if st.Terminal {
		return scenario.Scenario{}, scenario.ErrTerminal
	}
	return store.Get(st.ActiveScenarioID)
}

// ApplyChoice finds the active scenario's choice whose text matches exactly
// and computes the transition. It never falls back to another choice and
// does not touch store or st.
func ApplyChoice(store *scenario.Store, st SessionState, chosenText string) (Outcome, error) {
	sc, err := Current(store, st)
	if err != nil {
		return Outcome{}, err
	}

	choice, ok := sc.Choice(chosenText)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q in scenario %q", scenario.ErrChoiceNotFound, chosenText, sc.ID)
	}

	out := Outcome{
		ChosenText: choice.Text,
		IsCorrect:  choice.IsCorrect,
		Feedback:   choice.Feedback,
	}
	if choice.HasNext() {
		out.NextState = SessionState{ActiveScenarioID: *choice.NextID}
	} else {
		out.NextState = SessionState{Terminal: true}
	}
	return out, nil
}
