package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkageyama/grimoire-merchant/internal/session"
	"github.com/mkageyama/grimoire-merchant/pkg/engine"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, ErrorResponse{Error: msg})
}

// writeEngineError maps command errors to HTTP statuses: unknown resources
// are 404, game-rule violations are 409, everything else is a 500.
func writeEngineError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, engine.ErrNotFound):
		writeError(w, logger, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrInsufficientFunds),
		errors.Is(err, engine.ErrInsufficientMaterials),
		errors.Is(err, engine.ErrSlotBusy),
		errors.Is(err, engine.ErrNoActiveEvent),
		errors.Is(err, engine.ErrEventNotAwaitingChoice),
		errors.Is(err, engine.ErrInvalidChoice),
		errors.Is(err, engine.ErrGameOver),
		errors.Is(err, engine.ErrNotStarted):
		writeError(w, logger, http.StatusConflict, err.Error())
	default:
		logger.Error("Unexpected command error", "error", err)
		writeError(w, logger, http.StatusInternalServerError, "Internal server error")
	}
}
