package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/myspotipal/spotipal/pkg/logger"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// handleChat streams one answer over server-sent events. Events:
//
//	event: session  data: {"session_id": "..."}   (first, always)
//	data: "<fragment>"                             (zero or more)
//	event: done     data: {}                       (last)
//
// Fragments are JSON-encoded strings so newlines survive the framing.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeJSONError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sessionEvent, _ := json.Marshal(map[string]string{"session_id": req.SessionID})
	w.Write([]byte("event: session\ndata: " + string(sessionEvent) + "\n\n"))
	flusher.Flush()

	for fragment := range s.runner.Run(r.Context(), req.SessionID, req.Query) {
		encoded, err := json.Marshal(fragment)
		if err != nil {
			continue
		}
		w.Write([]byte("data: " + string(encoded) + "\n\n"))
		flusher.Flush()
	}

	w.Write([]byte("event: done\ndata: {}\n\n"))
	flusher.Flush()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The gateway binds to localhost by default; cross-origin pages are
	// rejected by the upgrader's same-origin default otherwise.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsOutbound struct {
	Type      string `json:"type"` // session | fragment | done | error
	SessionID string `json:"session_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// handleChatSocket serves multi-turn chat over one WebSocket connection.
// Each inbound message is a chatRequest; the answer streams back as
// fragment messages bracketed by session and done markers.
func (s *Server) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnCF("gateway", "websocket upgrade failed", map[string]any{"error": err.Error()})
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.DebugCF("gateway", "websocket read ended", map[string]any{"error": err.Error()})
			}
			return
		}
		if req.Query == "" {
			conn.WriteJSON(wsOutbound{Type: "error", Content: "query is required"})
			continue
		}
		if req.SessionID != "" {
			sessionID = req.SessionID
		}

		conn.WriteJSON(wsOutbound{Type: "session", SessionID: sessionID})
		for fragment := range s.runner.Run(r.Context(), sessionID, req.Query) {
			if err := conn.WriteJSON(wsOutbound{Type: "fragment", Content: fragment}); err != nil {
				return
			}
		}
		if err := conn.WriteJSON(wsOutbound{Type: "done", SessionID: sessionID}); err != nil {
			return
		}
	}
}
