// Package engine ties the scenario store, the session state machine and the
// optional generator together behind one API for presentation layers.
package engine

import (
	"context"
	"log/slog"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/generator"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/state"
)

// CauseDisabled is reported when generation is requested but not configured.
const CauseDisabled = "generation is disabled"

// ScenarioGenerator produces a new scenario and stores it.
type ScenarioGenerator interface {
	Generate(ctx context.Context) (scenario.Scenario, error)
}

// Simulator runs help desk sessions over a shared Store. It is safe for
// concurrent use by many sessions; each SessionState belongs to its caller.
type Simulator struct {
	store    *scenario.Store
	entryIDs []string
	gen      ScenarioGenerator
	pick     state.Picker
	logger   *slog.Logger
}

type Option func(*Simulator)

// WithGenerator enables Generate.
func WithGenerator(g ScenarioGenerator) Option {
	return func(s *Simulator) { s.gen = g }
}

// WithPicker replaces the random entry point picker.
func WithPicker(p state.Picker) Option {
	return func(s *Simulator) { s.pick = p }
}

// New creates a Simulator. entryIDs is the allow-list of scenarios a
// session may start on.
func New(store *scenario.Store, entryIDs []string, logger *slog.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		store:    store,
		entryIDs: append([]string(nil), entryIDs...),
		pick:     state.RandomPicker(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Store() *scenario.Store {
	return s.store
}

func (s *Simulator) EntryIDs() []string {
	return append([]string(nil), s.entryIDs...)
}

func (s *Simulator) GenerationEnabled() bool {
	return s.gen != nil
}

// Start begins a session on a random entry scenario.
func (s *Simulator) Start() (state.SessionState, error) {
	st, err := state.Start(s.store, s.entryIDs, s.pick)
	if err != nil {
		s.logger.Warn("Failed to start session", "error", err, "entry_ids", s.entryIDs)
		return st, err
	}
	s.logger.Debug("Session started", "scenario_id", st.ActiveScenarioID)
	return st, nil
}

// Current returns the scenario to render for st.
func (s *Simulator) Current(st state.SessionState) (scenario.Scenario, error) {
	return state.Current(s.store, st)
}

// Submit applies the choice whose text matches exactly.
func (s *Simulator) Submit(st state.SessionState, text string) (state.Outcome, error) {
	out, err := state.ApplyChoice(s.store, st, text)
	if err != nil {
		return out, err
	}
	s.logger.Debug("Choice applied",
		"scenario_id", st.ActiveScenarioID,
		"correct", out.IsCorrect,
		"terminal", out.NextState.Terminal)
	return out, nil
}

// Restart returns a fresh initial state.
func (s *Simulator) Restart() (state.SessionState, error) {
	return state.Restart(s.store, s.entryIDs, s.pick)
}

// Generate requests a new scenario and, on success, returns a state with it
// active. On failure st is returned unchanged along with the error.
func (s *Simulator) Generate(ctx context.Context, st state.SessionState) (state.SessionState, scenario.Scenario, error) {
	if s.gen == nil {
		return st, scenario.Scenario{}, &generator.GenerationError{Cause: CauseDisabled}
	}
	sc, err := s.gen.Generate(ctx)
	if err != nil {
		return st, scenario.Scenario{}, err
	}
	return state.SessionState{ActiveScenarioID: sc.ID}, sc, nil
}
