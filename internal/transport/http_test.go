// ABOUTME: Tests for the HTTP transport: routing, auth ordering, status codes
// ABOUTME: A bad API key must never reach the backend store

package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/daybook/daybook/internal/mcp"
	"github.com/daybook/daybook/internal/store"
	"github.com/daybook/daybook/internal/tools"
)

const testKey = "test-api-key-12345"

func newTestHandler(t *testing.T) (http.Handler, *store.MockStore) {
	t.Helper()
	m := store.NewMockStore()
	registry := tools.NewRegistry(m, nil)
	dispatcher, err := mcp.NewDispatcher(mcp.Config{
		Toolset:       registry,
		ServerName:    "daybook-test",
		ServerVersion: "0.0.0",
	})
	if err != nil {
		t.Fatalf("creating dispatcher: %v", err)
	}
	srv, err := NewHTTPServer(dispatcher, testKey, nil)
	if err != nil {
		t.Fatalf("creating HTTP server: %v", err)
	}
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	return mux, m
}

func postMCP(handler http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/"+key+"/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if payload["status"] != "ok" {
		t.Errorf("status = %q, want ok", payload["status"])
	}
}

func TestHealthRejectsPost(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestMCPValidRequest(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postMCP(handler, testKey, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp struct {
		Result mcp.ListToolsResult `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Result.Tools) == 0 {
		t.Error("expected a non-empty tool catalog")
	}
}

func TestMCPBadKeyNeverReachesBackend(t *testing.T) {
	handler, m := newTestHandler(t)

	rec := postMCP(handler, "wrong-key", `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"list_reminder_lists"}}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if m.Calls != 0 {
		t.Errorf("backend saw %d calls; a rejected request must not touch it", m.Calls)
	}
}

func TestMCPUnknownPath(t *testing.T) {
	handler, _ := newTestHandler(t)

	for _, path := range []string{
		"/" + testKey,
		"/" + testKey + "/mcp/extra",
		"/" + testKey + "/other",
		"/",
	} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, rec.Code)
		}
	}
}

func TestMCPMethodNotAllowed(t *testing.T) {
	handler, _ := newTestHandler(t)

	// Wrong method on a well-shaped path is reported before auth.
	req := httptest.NewRequest(http.MethodGet, "/wrong-key/mcp", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "POST" {
		t.Errorf("Allow = %q, want POST", allow)
	}
}

func TestMCPWrongContentType(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/"+testKey+"/mcp", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", rec.Code)
	}
}

func TestMCPContentTypeWithCharset(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/"+testKey+"/mcp",
		strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestMCPEmptyBody(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postMCP(handler, testKey, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		ID    json.RawMessage `json:"id"`
		Error struct {
			Code int `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("body is not a JSON-RPC envelope: %v\n%s", err, rec.Body)
	}
	if resp.Error.Code != mcp.CodeParseError {
		t.Errorf("code = %d, want %d", resp.Error.Code, mcp.CodeParseError)
	}
	if string(resp.ID) != "-1" {
		t.Errorf("id = %s, want -1", resp.ID)
	}
}

func TestMCPMalformedBody(t *testing.T) {
	handler, _ := newTestHandler(t)

	// Malformed JSON still gets a 200 with a JSON-RPC error envelope;
	// HTTP status codes are reserved for transport-level failures.
	rec := postMCP(handler, testKey, `{broken`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Error struct {
			Code int `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error.Code != mcp.CodeParseError {
		t.Errorf("code = %d, want %d", resp.Error.Code, mcp.CodeParseError)
	}
}

func TestMCPNotificationAccepted(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postMCP(handler, testKey, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("notification response body should be empty, got %s", rec.Body)
	}
}

func TestMCPToolCallEndToEnd(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postMCP(handler, testKey,
		`{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"create_reminder","arguments":{"title":"buy milk"}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Result mcp.CallToolResult `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Result.Content) != 1 {
		t.Fatalf("content = %+v", resp.Result.Content)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(resp.Result.Content[0].Text), &payload); err != nil {
		t.Fatalf("result text is not JSON: %v", err)
	}
	if payload["success"] != true {
		t.Errorf("payload = %v", payload)
	}
	if payload["reminder_id"] == "" {
		t.Error("expected a reminder id")
	}
}

func TestNewHTTPServerRequiresKey(t *testing.T) {
	dispatcher, err := mcp.NewDispatcher(mcp.Config{
		Toolset: tools.NewRegistry(store.NewMockStore(), nil),
	})
	if err != nil {
		t.Fatalf("creating dispatcher: %v", err)
	}
	if _, err := NewHTTPServer(dispatcher, "", nil); err == nil {
		t.Fatal("expected an error for an empty API key")
	}
	if _, err := NewHTTPServer(nil, "key", nil); err == nil {
		t.Fatal("expected an error for a nil dispatcher")
	}
}
