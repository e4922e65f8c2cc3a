package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sort"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cloud-ru/mcp-mortgage-go/internal/ledger"
	"github.com/cloud-ru/mcp-mortgage-go/internal/session"
	"github.com/cloud-ru/mcp-mortgage-go/internal/tools"
)

const maxBodyBytes = 1 << 20

type toolRequest struct {
	Params map[string]interface{} `json:"params"`
}

type toolResponse struct {
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Server отдает реестр инструментов по HTTP
type Server struct {
	tools  map[string]tools.ToolHandler
	logger *slog.Logger
}

func New(handlers map[string]tools.ToolHandler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{tools: handlers, logger: logger}
}

// Handler возвращает HTTP-маршруты
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /tools/{name}", s.callTool)
	mux.HandleFunc("GET /tools", s.listTools)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) listTools(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	writeJSON(w, http.StatusOK, map[string][]string{"tools": names})
}

func (s *Server) callTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	handler, ok := s.tools[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, toolResponse{Error: "unknown tool: " + name})
		return
	}

	var req toolRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, toolResponse{Error: "invalid request body"})
		return
	}
	if req.Params == nil {
		req.Params = map[string]interface{}{}
	}

	result, err := handler(r.Context(), req.Params)
	if err != nil {
		status := statusFor(err)
		s.logger.Warn("tool call failed", "tool", name, "status", status, "error", err)
		writeJSON(w, status, toolResponse{Error: err.Error()})
		return
	}

	s.logger.Debug("tool call", "tool", name)
	writeJSON(w, http.StatusOK, toolResponse{Result: result})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, ledger.ErrPlanNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
