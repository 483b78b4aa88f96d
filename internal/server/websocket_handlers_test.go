package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestWebSocket(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readResponse(t *testing.T, conn *websocket.Conn) WebSocketResponse {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp WebSocketResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestWebSocket_TextExtraction(t *testing.T) {
	conn := dialTestWebSocket(t, newTestServer(t, defaultStub()))

	req := WebSocketRequest{Type: "text", Text: "HAEMOGLOBIN\n13.2"}
	require.NoError(t, conn.WriteJSON(req))

	resp := readResponse(t, conn)
	assert.Equal(t, "result", resp.Type)
	assert.Equal(t, "completed", resp.Status)
	assert.NotEmpty(t, resp.RequestID)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 1, resp.Result.TotalFields)
}

func TestWebSocket_ReportWithProgress(t *testing.T) {
	conn := dialTestWebSocket(t, newTestServer(t, defaultStub()))

	req := WebSocketRequest{
		Type:     "report",
		Report:   []byte("%PDF-1.4 mock"),
		Filename: "cbc.pdf",
	}
	require.NoError(t, conn.WriteJSON(req))

	// The stub emits one progress update before the result.
	progress := readResponse(t, conn)
	assert.Equal(t, "progress", progress.Type)
	require.NotNil(t, progress.Progress)
	assert.Equal(t, "cbc.pdf", progress.Progress.Source)
	assert.Equal(t, 1, progress.Progress.Page)

	result := readResponse(t, conn)
	assert.Equal(t, "result", result.Type)
	require.NotNil(t, result.Result)
	assert.Equal(t, "cbc.pdf", result.Result.Source)
}

func TestWebSocket_UnknownType(t *testing.T) {
	conn := dialTestWebSocket(t, newTestServer(t, defaultStub()))

	require.NoError(t, conn.WriteJSON(WebSocketRequest{Type: "barcode"}))

	resp := readResponse(t, conn)
	assert.Equal(t, "error", resp.Type)
	assert.Contains(t, resp.Error, "unknown request type")
}

func TestWebSocket_MissingText(t *testing.T) {
	conn := dialTestWebSocket(t, newTestServer(t, defaultStub()))

	require.NoError(t, conn.WriteJSON(WebSocketRequest{Type: "text"}))

	resp := readResponse(t, conn)
	assert.Equal(t, "error", resp.Type)
	assert.Contains(t, resp.Error, "'text' is required")
}

func TestWebSocket_InvalidJSON(t *testing.T) {
	conn := dialTestWebSocket(t, newTestServer(t, defaultStub()))

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))

	resp := readResponse(t, conn)
	assert.Equal(t, "error", resp.Type)
}
