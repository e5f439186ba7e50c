package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mkageyama/grimoire-merchant/internal/session"
	"github.com/mkageyama/grimoire-merchant/pkg/catalog"
	"github.com/mkageyama/grimoire-merchant/pkg/engine"
)

// CommandRequest is the envelope posted to the commands endpoint. Type
// selects the operation; the remaining fields are read per type.
type CommandRequest struct {
	Type       string `json:"type"`
	MaterialID string `json:"material_id,omitempty"`
	SlotID     int    `json:"slot_id,omitempty"`
	ItemID     string `json:"item_id,omitempty"`
	Buyer      string `json:"buyer,omitempty"`
	ChoiceID   string `json:"choice_id,omitempty"`
	Track      string `json:"track,omitempty"`
}

type SessionListResponse struct {
	Sessions []uuid.UUID `json:"sessions"`
}

type SessionHandler struct {
	manager *session.Manager
	logger  *slog.Logger
}

func NewSessionHandler(manager *session.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  logger,
	}
}

// ServeHTTP routes session requests:
//
//	POST   /v1/sessions                - create a session
//	GET    /v1/sessions                - list live session ids
//	GET    /v1/sessions/{id}           - current snapshot
//	DELETE /v1/sessions/{id}           - stop and forget a session
//	POST   /v1/sessions/{id}/commands  - execute a game command
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	if rest == "" {
		switch r.Method {
		case http.MethodPost:
			h.handleCreate(w, r)
		case http.MethodGet:
			writeJSON(w, h.logger, http.StatusOK, SessionListResponse{Sessions: h.manager.List()})
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, GET")
		}
		return
	}

	idStr, tail, _ := strings.Cut(rest, "/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", idStr, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	switch {
	case tail == "" && r.Method == http.MethodGet:
		h.handleSnapshot(w, r, id)
	case tail == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, id)
	case tail == "commands" && r.Method == http.MethodPost:
		h.handleCommand(w, r, id)
	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown session endpoint")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	snap, err := h.manager.Create(r.Context())
	if err != nil {
		h.logger.Error("Failed to create session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, snap)
}

func (h *SessionHandler) handleSnapshot(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	snap, err := h.manager.Snapshot(r.Context(), id)
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, snap)
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.manager.Delete(r.Context(), id); err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) handleCommand(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid command body", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	fn, err := commandFunc(&req)
	if err != nil {
		h.logger.Warn("Unknown command", "session_id", id, "type", req.Type)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := h.manager.Do(r.Context(), id, fn)
	if err != nil {
		writeEngineError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, snap)
}

// commandFunc translates a command envelope into an engine call.
func commandFunc(req *CommandRequest) (func(*engine.Engine) error, error) {
	switch req.Type {
	case "start_game":
		return func(e *engine.Engine) error { return e.StartGame() }, nil
	case "reset_game":
		return func(e *engine.Engine) error { e.ResetGame(); return nil }, nil
	case "purchase_material":
		return func(e *engine.Engine) error { return e.PurchaseMaterial(req.MaterialID) }, nil
	case "start_production":
		return func(e *engine.Engine) error { return e.StartProduction(req.SlotID) }, nil
	case "sell_artifact":
		buyer := catalog.Faction(req.Buyer)
		return func(e *engine.Engine) error {
			_, err := e.SellArtifact(req.ItemID, buyer)
			return err
		}, nil
	case "resolve_choice":
		return func(e *engine.Engine) error { return e.ResolveEventChoice(req.ChoiceID) }, nil
	case "dismiss_event":
		return func(e *engine.Engine) error { return e.DismissEvent() }, nil
	case "upgrade":
		track := engine.UpgradeTrack(req.Track)
		return func(e *engine.Engine) error { return e.UpgradeProduction(track) }, nil
	default:
		return nil, fmt.Errorf("unknown command type %q", req.Type)
	}
}
