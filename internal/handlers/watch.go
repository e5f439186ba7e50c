package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mkageyama/grimoire-merchant/internal/session"
)

// watchInterval is the snapshot push period. Matches the fast simulation
// tick so clients see production progress advance smoothly.
const watchInterval = time.Second

// WatchHandler upgrades GET /v1/sessions/{id}/watch to a websocket and
// streams session snapshots until the client goes away or the session stops.
type WatchHandler struct {
	manager  *session.Manager
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWatchHandler(manager *session.Manager, logger *slog.Logger) *WatchHandler {
	return &WatchHandler{
		manager: manager,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The API is same-infrastructure only; origin policy is the
			// deployment proxy's job.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *WatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	idStr, tail, _ := strings.Cut(rest, "/")
	if tail != "watch" {
		http.NotFound(w, r)
		return
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	// Reject unknown sessions before upgrading the connection.
	if _, err := h.manager.Snapshot(r.Context(), id); err != nil {
		w.Header().Set("Content-Type", "application/json")
		writeEngineError(w, h.logger, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "session_id", id, "error", err)
		return
	}
	defer conn.Close()

	log := h.logger.With("session_id", id, "remote_addr", r.RemoteAddr)
	log.Debug("watch stream opened")

	// Drain client frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug("watch stream closed by server")
			return
		case <-ticker.C:
			snap, err := h.manager.Snapshot(r.Context(), id)
			if err != nil {
				log.Debug("watch stream ending", "error", err)
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
					time.Now().Add(time.Second))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(snap); err != nil {
				log.Debug("watch client disconnected", "error", err)
				return
			}
		}
	}
}
