package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/engine"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/logger"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/storage"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/state"
)

// EndMessage is shown once a session reaches a terminal state.
const EndMessage = "End of scenario. Thank you for playing! Restart to try again!"

// ScenarioView is what a player sees: no correctness or feedback until a
// choice is made.
type ScenarioView struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Choices     []string `json:"choices"`
}

func newScenarioView(sc scenario.Scenario) *ScenarioView {
	v := &ScenarioView{
		ID:          sc.ID,
		Description: sc.Description,
		Choices:     make([]string, len(sc.Choices)),
	}
	for i, c := range sc.Choices {
		v.Choices[i] = c.Text
	}
	return v
}

type SessionResponse struct {
	ID                uuid.UUID          `json:"id"`
	State             state.SessionState `json:"state"`
	Score             state.Score        `json:"score"`
	Restarts          int                `json:"restarts"`
	Scenario          *ScenarioView      `json:"scenario,omitempty"`
	Message           string             `json:"message,omitempty"`
	GenerationEnabled bool               `json:"generation_enabled"`
}

type ChoiceRequest struct {
	Text string `json:"text"`
}

type ChoiceResponse struct {
	Outcome state.Outcome   `json:"outcome"`
	Session SessionResponse `json:"session"`
}

// SessionHandler drives sessions over HTTP.
// Routes:
// POST /v1/sessions              - Start a session on a random entry scenario
// GET  /v1/sessions/{id}         - Render the current scenario
// POST /v1/sessions/{id}/choice  - Apply a choice by its exact text
// POST /v1/sessions/{id}/restart - Start over
// POST /v1/sessions/{id}/generate - Generate a scenario and make it active
type SessionHandler struct {
	sim      *engine.Simulator
	sessions storage.SessionStore
	logger   *slog.Logger
}

func NewSessionHandler(sim *engine.Simulator, sessions storage.SessionStore, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sim:      sim,
		sessions: sessions,
		logger:   logger,
	}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, h.logger, http.MethodPost)
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(path, "/")
	if len(parts) > 2 {
		writeJSON(w, h.logger, http.StatusNotFound, ErrorResponse{Error: "Unknown session route"})
		return
	}

	id, err := uuid.Parse(parts[0])
	if err != nil {
		writeBadRequest(w, h.logger, "Invalid session ID format")
		return
	}
	log := logger.WithSession(h.logger, id.String())

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, log, http.MethodGet)
			return
		}
		h.handleRead(w, r, id, log)
	case "choice", "restart", "generate":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, log, http.MethodPost)
			return
		}
		switch action {
		case "choice":
			h.handleChoice(w, r, id, log)
		case "restart":
			h.handleRestart(w, r, id, log)
		default:
			h.handleGenerate(w, r, id, log)
		}
	default:
		writeJSON(w, log, http.StatusNotFound, ErrorResponse{Error: "Unknown session action: " + action})
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	initial, err := h.sim.Start()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	s := state.NewSession(initial)
	if err := h.sessions.SaveSession(r.Context(), s); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("Session created", "session_id", s.ID, "scenario_id", initial.ActiveScenarioID)

	resp, err := h.render(s)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, resp)
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) {
	s, ok := h.load(w, r, id, log)
	if !ok {
		return
	}
	resp, err := h.render(s)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, resp)
}

func (h *SessionHandler) handleChoice(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) {
	var req ChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, log, "Invalid JSON in request body")
		return
	}
	if req.Text == "" {
		writeBadRequest(w, log, "text field is required")
		return
	}

	s, ok := h.load(w, r, id, log)
	if !ok {
		return
	}

	out, err := h.sim.Submit(s.State, req.Text)
	if err != nil {
		writeError(w, log, err)
		return
	}
	s.Commit(out)
	if err := h.sessions.SaveSession(r.Context(), s); err != nil {
		writeError(w, log, err)
		return
	}

	resp, err := h.render(s)
	if err != nil && !errors.Is(err, scenario.ErrNotFound) {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, ChoiceResponse{Outcome: out, Session: resp})
}

func (h *SessionHandler) handleRestart(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) {
	s, ok := h.load(w, r, id, log)
	if !ok {
		return
	}

	initial, err := h.sim.Restart()
	if err != nil {
		writeError(w, log, err)
		return
	}
	s.Reset(initial)
	if err := h.sessions.SaveSession(r.Context(), s); err != nil {
		writeError(w, log, err)
		return
	}

	resp, err := h.render(s)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, resp)
}

func (h *SessionHandler) handleGenerate(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) {
	s, ok := h.load(w, r, id, log)
	if !ok {
		return
	}

	next, sc, err := h.sim.Generate(r.Context(), s.State)
	if err != nil {
		writeError(w, log, err)
		return
	}
	s.Jump(next.ActiveScenarioID)
	if err := h.sessions.SaveSession(r.Context(), s); err != nil {
		writeError(w, log, err)
		return
	}
	log.Info("Session moved to generated scenario", "scenario_id", sc.ID)

	resp, err := h.render(s)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusCreated, resp)
}

// load fetches the session or writes a 404.
func (h *SessionHandler) load(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) (*state.Session, bool) {
	s, err := h.sessions.LoadSession(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return nil, false
	}
	if s == nil {
		writeJSON(w, log, http.StatusNotFound, ErrorResponse{
			Error: "Session not found",
			Kind:  scenario.KindNotFound,
		})
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) render(s *state.Session) (SessionResponse, error) {
	return RenderSession(h.sim, s)
}

// RenderSession builds the view of s. A terminal session renders the end
// message; a dangling scenario reference is returned as an error alongside
// the partial response.
func RenderSession(sim *engine.Simulator, s *state.Session) (SessionResponse, error) {
	resp := SessionResponse{
		ID:                s.ID,
		State:             s.State,
		Score:             s.Score,
		Restarts:          s.Restarts,
		GenerationEnabled: sim.GenerationEnabled(),
	}
	if s.State.Terminal {
		resp.Message = EndMessage
		return resp, nil
	}
	sc, err := sim.Current(s.State)
	if err != nil {
		return resp, err
	}
	resp.Scenario = newScenarioView(sc)
	return resp, nil
}
