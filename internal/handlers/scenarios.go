package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

type ScenarioListResponse struct {
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
}

// ScenarioHandler exposes the scenario store read-only.
// Routes:
// GET /v1/scenarios      - List scenario ids in load order
// GET /v1/scenarios/{id} - Full scenario, including answers
type ScenarioHandler struct {
	store  *scenario.Store
	logger *slog.Logger
}

func NewScenarioHandler(store *scenario.Store, logger *slog.Logger) *ScenarioHandler {
	return &ScenarioHandler{
		store:  store,
		logger: logger,
	}
}

func (h *ScenarioHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, h.logger, http.MethodGet)
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/scenarios"), "/")
	if id == "" {
		ids := h.store.IDs()
		writeJSON(w, h.logger, http.StatusOK, ScenarioListResponse{IDs: ids, Count: len(ids)})
		return
	}
	if strings.Contains(id, "/") {
		writeBadRequest(w, h.logger, "Invalid scenario id")
		return
	}

	sc, err := h.store.Get(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, sc)
}
