// ABOUTME: HTTP transport: /health plus the authenticated /{apiKey}/mcp endpoint
// ABOUTME: Auth is checked strictly before the body is read or the dispatcher invoked

package transport

import (
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/daybook/daybook/internal/mcp"
)

// maxRequestBodySize is the maximum allowed size for request bodies (1MB).
const maxRequestBodySize = 1 << 20

// emptyBodyResponse is the pre-formed parse-error envelope for requests
// that authenticate but carry no body.
const emptyBodyResponse = `{"jsonrpc":"2.0","id":-1,"error":{"code":-32700,"message":"parse error: empty request body"}}`

// HTTPServer frames the protocol over HTTP with a path-embedded API key.
type HTTPServer struct {
	dispatcher *mcp.Dispatcher
	apiKey     string
	logger     *slog.Logger
}

// NewHTTPServer creates the HTTP transport. The API key is required; an
// unauthenticated MCP endpoint is never served.
func NewHTTPServer(d *mcp.Dispatcher, apiKey string, logger *slog.Logger) (*HTTPServer, error) {
	if d == nil {
		return nil, errors.New("dispatcher is required")
	}
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPServer{
		dispatcher: d,
		apiKey:     apiKey,
		logger:     logger.With("component", "http"),
	}, nil
}

// RegisterRoutes registers the health and MCP endpoints on the given mux.
func (s *HTTPServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleMCP)
}

// handleHealth is the unauthenticated liveness probe.
func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleMCP serves POST /{apiKey}/mcp. The path must be exactly two
// segments with the second literally "mcp"; the first is compared
// against the configured key before anything else about the request is
// examined.
func (s *HTTPServer) handleMCP(w http.ResponseWriter, r *http.Request) {
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(segments) != 2 || segments[1] != "mcp" {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if subtle.ConstantTimeCompare([]byte(segments[0]), []byte(s.apiKey)) != 1 {
		s.logger.Warn("rejected request with bad API key", "remote", r.RemoteAddr)
		writeJSONError(w, http.StatusUnauthorized, "invalid API key")
		return
	}

	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) == 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(emptyBodyResponse))
		return
	}

	resp := s.dispatcher.Handle(r.Context(), body)
	if resp == nil {
		// Notification: accepted, nothing to say.
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(resp)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
