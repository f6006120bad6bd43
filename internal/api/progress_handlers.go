package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mwai-ops/doc-intel/internal/progress"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Progress is read-only data; the page serving the upload form may be
	// hosted separately, so origin checks stay permissive.
	CheckOrigin: func(*http.Request) bool { return true },
}

// streamProgress serves GET /v1/progress/{session_id} as Server-Sent Events.
// Each distinct snapshot is written as one event; the stream ends after the
// terminal snapshot or when the client disconnects.
func (s *Server) streamProgress(w http.ResponseWriter, r *http.Request) {
	if s.streamer == nil {
		writeError(s.logger, w, http.StatusServiceUnavailable, "progress streaming is not configured")
		return
	}
	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		writeError(s.logger, w, http.StatusBadRequest, "session_id is required")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(s.logger, w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	var last progress.Snapshot
	for snap := range s.streamer.Subscribe(r.Context(), sessionID) {
		payload, err := json.Marshal(snap)
		if err != nil {
			s.logger.Error("marshal snapshot failed", zap.Error(err))
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
		last = snap
	}
	s.reclaimSession(sessionID, last)
}

// streamProgressWS serves GET /ws?session_id=... over a WebSocket. It pushes
// the same snapshots as the SSE endpoint and closes after the terminal one.
func (s *Server) streamProgressWS(w http.ResponseWriter, r *http.Request) {
	if s.streamer == nil {
		writeError(s.logger, w, http.StatusServiceUnavailable, "progress streaming is not configured")
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(s.logger, w, http.StatusBadRequest, "session_id is required")
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer closeQuietly(conn, s.logger)

	var last progress.Snapshot
	for snap := range s.streamer.Subscribe(r.Context(), sessionID) {
		if err := conn.WriteJSON(snap); err != nil {
			s.logger.Debug("websocket write failed",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
			return
		}
		last = snap
	}
	s.reclaimSession(sessionID, last)
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteMessage(websocket.CloseMessage, closeMsg)
}

// reclaimSession drops the session's snapshot once a subscriber has seen a
// terminal one. A stream cut short by the client keeps the session readable
// for a reconnect.
func (s *Server) reclaimSession(sessionID string, last progress.Snapshot) {
	if s.progress == nil || !last.Terminal() {
		return
	}
	s.progress.Forget(sessionID)
}
