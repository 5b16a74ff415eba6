package main

import (
	"context"
	"errors"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/engine"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/handlers"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/state"
)

var errNoSession = errors.New("no session started")

// Backend runs one player's session. The console talks to either an
// in-process simulator or a running API through it.
type Backend interface {
	Start(ctx context.Context) (handlers.SessionResponse, error)
	Choose(ctx context.Context, text string) (handlers.ChoiceResponse, error)
	Restart(ctx context.Context) (handlers.SessionResponse, error)
	Generate(ctx context.Context) (handlers.SessionResponse, error)
	ScenarioCount(ctx context.Context) (int, error)
}

// localBackend drives an engine.Simulator directly.
type localBackend struct {
	sim     *engine.Simulator
	session *state.Session
}

func newLocalBackend(sim *engine.Simulator) *localBackend {
	return &localBackend{sim: sim}
}

func (b *localBackend) Start(ctx context.Context) (handlers.SessionResponse, error) {
	initial, err := b.sim.Start()
	if err != nil {
		return handlers.SessionResponse{}, err
	}
	b.session = state.NewSession(initial)
	return handlers.RenderSession(b.sim, b.session)
}

func (b *localBackend) Choose(ctx context.Context, text string) (handlers.ChoiceResponse, error) {
	if b.session == nil {
		return handlers.ChoiceResponse{}, errNoSession
	}
	out, err := b.sim.Submit(b.session.State, text)
	if err != nil {
		return handlers.ChoiceResponse{}, err
	}
	b.session.Commit(out)

	// a dangling next id still shows the feedback; the view reports it after
	resp, err := handlers.RenderSession(b.sim, b.session)
	if err != nil && !errors.Is(err, scenario.ErrNotFound) {
		return handlers.ChoiceResponse{}, err
	}
	return handlers.ChoiceResponse{Outcome: out, Session: resp}, nil
}

func (b *localBackend) Restart(ctx context.Context) (handlers.SessionResponse, error) {
	if b.session == nil {
		return b.Start(ctx)
	}
	initial, err := b.sim.Restart()
	if err != nil {
		return handlers.SessionResponse{}, err
	}
	b.session.Reset(initial)
	return handlers.RenderSession(b.sim, b.session)
}

func (b *localBackend) Generate(ctx context.Context) (handlers.SessionResponse, error) {
	if b.session == nil {
		return handlers.SessionResponse{}, errNoSession
	}
	next, _, err := b.sim.Generate(ctx, b.session.State)
	if err != nil {
		return handlers.SessionResponse{}, err
	}
	b.session.Jump(next.ActiveScenarioID)
	return handlers.RenderSession(b.sim, b.session)
}

func (b *localBackend) ScenarioCount(ctx context.Context) (int, error) {
	return b.sim.Store().Len(), nil
}
