package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/services"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/chat"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

// Causes reported by GenerationError.
const (
	CauseMissingCredential = "missing credential"
	CauseEmptyResponse     = "empty response"
	CauseMalformedJSON     = "malformed JSON"
	CauseValidation        = "generated scenario failed validation"
	CauseService           = "generation service error"
	CauseTimeout           = "generation service timed out"
	CauseInsert            = "could not store generated scenario"
)

const (
	DefaultModel       = "grok-3-mini"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 300
	DefaultTimeout     = 30 * time.Second
)

// GenerationError is returned for every generation failure. It matches
// scenario.ErrGeneration and, when present, the underlying error.
type GenerationError struct {
	Cause string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", scenario.ErrGeneration, e.Cause)
	}
	return fmt.Sprintf("%v: %s: %v", scenario.ErrGeneration, e.Cause, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{scenario.ErrGeneration}
	}
	return []error{scenario.ErrGeneration, e.Err}
}

// Options tunes the request sent to the generation service.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	// UseSchema attaches ResponseSchema for providers that honor it.
	UseSchema bool
}

// Generator requests new scenarios from an LLMService and adds them to a Store.
type Generator struct {
	llm    services.LLMService
	store  *scenario.Store
	opts   Options
	logger *slog.Logger
}

// New creates a Generator. A nil llm is allowed and makes every call fail
// with CauseMissingCredential.
func New(llm services.LLMService, store *scenario.Store, opts Options, logger *slog.Logger) *Generator {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Generator{
		llm:    llm,
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// Generate asks the service for one scenario, validates it, assigns a fresh
// id and inserts it. On failure the Store is left untouched.
func (g *Generator) Generate(ctx context.Context) (scenario.Scenario, error) {
	if g.llm == nil {
		generationsTotal.WithLabelValues("none", "missing_credential").Inc()
		return scenario.Scenario{}, &GenerationError{Cause: CauseMissingCredential}
	}
	provider := g.llm.Name()

	req := chat.NewPromptRequest(g.opts.Model, Prompt, g.opts.Temperature, g.opts.MaxTokens)
	if g.opts.UseSchema {
		req.Schema = ResponseSchema
	}

	callCtx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	start := time.Now()
	text, err := g.llm.Complete(callCtx, req)
	generationDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		cause := CauseService
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			cause = CauseTimeout
		case errors.Is(err, services.ErrMissingAPIKey):
			cause = CauseMissingCredential
		}
		return g.fail(provider, "service_error", &GenerationError{Cause: cause, Err: err})
	}

	body := StripCodeFence(text)
	if body == "" {
		return g.fail(provider, "empty_response", &GenerationError{Cause: CauseEmptyResponse})
	}

	var raw any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return g.fail(provider, "malformed_json", &GenerationError{Cause: CauseMalformedJSON, Err: err})
	}

	// any id the model made up is replaced by one the Store hands out
	if rec, ok := raw.(map[string]any); ok {
		delete(rec, "id")
	}
	sc, err := scenario.Validate(raw)
	if err != nil {
		return g.fail(provider, "invalid", &GenerationError{Cause: CauseValidation, Err: err})
	}

	sc.ID = g.store.NextID()
	if err := g.store.Insert(sc); err != nil {
		return g.fail(provider, "insert_failed", &GenerationError{Cause: CauseInsert, Err: err})
	}

	if n := sc.CorrectCount(); n != 1 {
		flaggedScenariosTotal.Inc()
		g.logger.Warn("Generated scenario does not have exactly one correct choice",
			"scenario_id", sc.ID,
			"correct_choices", n)
	}

	generationsTotal.WithLabelValues(provider, "success").Inc()
	g.logger.Info("Generated scenario stored",
		"scenario_id", sc.ID,
		"provider", provider,
		"choices", len(sc.Choices),
		"store_size", g.store.Len())
	return sc, nil
}

func (g *Generator) fail(provider, result string, err *GenerationError) (scenario.Scenario, error) {
	generationsTotal.WithLabelValues(provider, result).Inc()
	g.logger.Warn("Scenario generation failed", "provider", provider, "cause", err.Cause, "error", err.Err)
	return scenario.Scenario{}, err
}
