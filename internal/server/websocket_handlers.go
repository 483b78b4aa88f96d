package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/niksi-nova/swasthya-ai/internal/pipeline"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origins are not restricted; deployments front this with a
		// reverse proxy that enforces them.
		return true
	},
}

// WebSocketRequest is an extraction request sent over the websocket.
// Exactly one of Report (a base64 PDF in JSON) or Text must be set.
type WebSocketRequest struct {
	Type     string `json:"type"` // "report" or "text"
	Report   []byte `json:"report,omitempty"`
	Filename string `json:"filename,omitempty"`
	Text     string `json:"text,omitempty"`
}

// WebSocketResponse is a message sent back to the client.
type WebSocketResponse struct {
	Type      string                     `json:"type"`   // "progress", "result", "error"
	Status    string                     `json:"status"` // "processing", "completed", "error"
	RequestID string                     `json:"request_id"`
	Progress  *pipeline.ProgressUpdate   `json:"progress,omitempty"`
	Result    *pipeline.ExtractionResult `json:"result,omitempty"`
	Error     string                     `json:"error,omitempty"`
}

// extractWebSocketHandler handles websocket connections for extraction
// with per-page progress streaming.
func (s *Server) extractWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection to websocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("websocket connection established", "remote_addr", r.RemoteAddr)

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("websocket error", "error", err)
			}
			break
		}
		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketRequest(conn, data)
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		}
	}
}

// handleWebSocketRequest processes one extraction request and streams
// progress and the final result back over the connection.
func (s *Server) handleWebSocketRequest(conn *websocket.Conn, data []byte) {
	requestID := uuid.NewString()

	var req WebSocketRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, requestID, "invalid request: "+err.Error())
		return
	}

	switch req.Type {
	case "text":
		if req.Text == "" {
			s.sendWebSocketError(conn, requestID, "field 'text' is required")
			return
		}
		result := s.extractor.ProcessText(req.Text)
		s.sendWebSocketResult(conn, requestID, result)

	case "report":
		if len(req.Report) == 0 {
			s.sendWebSocketError(conn, requestID, "field 'report' is required")
			return
		}
		s.processWebSocketReport(conn, requestID, &req)

	default:
		s.sendWebSocketError(conn, requestID, "unknown request type: "+req.Type)
	}
}

func (s *Server) processWebSocketReport(conn *websocket.Conn, requestID string, req *WebSocketRequest) {
	filename := req.Filename
	if filename == "" {
		filename = "report.pdf"
	}

	path, cleanup, err := stageUpload(bytes.NewReader(req.Report), filename)
	if err != nil {
		s.sendWebSocketError(conn, requestID, "failed to store upload")
		return
	}
	defer cleanup()

	// A dedicated extractor carries this request's progress stream.
	extractor := s.newExtractor(func(update pipeline.ProgressUpdate) {
		update.Source = filename
		s.sendWebSocketMessage(conn, WebSocketResponse{
			Type:      "progress",
			Status:    "processing",
			RequestID: requestID,
			Progress:  &update,
		})
	})

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout())
	defer cancel()

	start := time.Now()
	result, err := extractor.ProcessFile(ctx, path)
	if err != nil {
		extractionRequestsTotal.WithLabelValues("ws", "error").Inc()
		s.sendWebSocketError(conn, requestID, err.Error())
		return
	}
	result.Source = filename

	extractionRequestsTotal.WithLabelValues("ws", "success").Inc()
	extractionDuration.WithLabelValues("ws").Observe(time.Since(start).Seconds())
	s.sendWebSocketResult(conn, requestID, result)
}

func (s *Server) sendWebSocketResult(conn *websocket.Conn, requestID string, result *pipeline.ExtractionResult) {
	s.sendWebSocketMessage(conn, WebSocketResponse{
		Type:      "result",
		Status:    "completed",
		RequestID: requestID,
		Result:    result,
	})
}

func (s *Server) sendWebSocketError(conn *websocket.Conn, requestID, message string) {
	s.sendWebSocketMessage(conn, WebSocketResponse{
		Type:      "error",
		Status:    "error",
		RequestID: requestID,
		Error:     message,
	})
}

func (s *Server) sendWebSocketMessage(conn *websocket.Conn, msg WebSocketResponse) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal websocket message", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("failed to write websocket message", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
