package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/engine"
	"github.com/Al1374525/Cyber-Security-Awareness-App/internal/generator"
	"github.com/Al1374525/Cyber-Security-Awareness-App/pkg/scenario"
)

// KindBadRequest marks request errors that never reach the core.
const KindBadRequest scenario.ErrorKind = "bad_request"

type ErrorResponse struct {
	Error            string             `json:"error"`
	Kind             scenario.ErrorKind `json:"kind,omitempty"`
	RestartAvailable bool               `json:"restart_available,omitempty"`
}

func statusForKind(kind scenario.ErrorKind) int {
	switch kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case scenario.KindNotFound:
		return http.StatusNotFound
	case scenario.KindValidation, scenario.KindMalformedSource:
		return http.StatusUnprocessableEntity
	case scenario.KindGeneration:
		return http.StatusBadGateway
	case scenario.KindEmptyStore, scenario.KindSourceUnavailable:
		return http.StatusServiceUnavailable
	case scenario.KindTerminal:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError renders err with a status derived from its kind.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := scenario.KindOf(err)
	status := statusForKind(kind)

	var genErr *generator.GenerationError
	if errors.As(err, &genErr) && genErr.Cause == engine.CauseDisabled {
		status = http.StatusServiceUnavailable
	}

	resp := ErrorResponse{Error: err.Error(), Kind: kind}
	if errors.Is(err, scenario.ErrScenarioNotFound) || errors.Is(err, scenario.ErrTerminal) {
		resp.RestartAvailable = true
	}
	if status >= http.StatusInternalServerError && kind == scenario.KindInternal {
		logger.Error("Request failed", "error", err)
		resp.Error = "Internal server error"
	}
	writeJSON(w, logger, status, resp)
}

func writeBadRequest(w http.ResponseWriter, logger *slog.Logger, msg string) {
	logger.Warn("Bad request", "error", msg)
	writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{Error: msg, Kind: KindBadRequest})
}

func writeMethodNotAllowed(w http.ResponseWriter, logger *slog.Logger, allowed string) {
	w.Header().Set("Allow", allowed)
	writeJSON(w, logger, http.StatusMethodNotAllowed, ErrorResponse{
		Error: "Method not allowed. Supported methods: " + allowed,
	})
}
