// Package server provides the HTTP handlers and routing for the calculator web UI.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kaptinlin/jsonrepair"

	"calc-mcp/internal/config"
	"calc-mcp/internal/dispatch"
	"calc-mcp/internal/httpserve"
	"calc-mcp/internal/logging"
)

const maxBodyBytes = 1 << 20

// Server contains the configured router, dispatcher and config for the web UI.
type Server struct {
	cfg        config.Config
	router     *chi.Mux
	dispatcher *dispatch.Dispatcher
	log        *slog.Logger
}

// New constructs a Server with middleware and routes configured.
func New(cfg config.Config, d *dispatch.Dispatcher) *Server {
	s := &Server{
		cfg:        cfg,
		router:     chi.NewRouter(),
		dispatcher: d,
		log:        logging.New("web"),
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.accessLog)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.cors)
	s.router.Use(middleware.Timeout(cfg.RequestTimeout))

	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleNotFound)

	s.router.Get("/", s.handleIndex)
	s.router.Get("/index.html", s.handleIndex)
	s.router.Get("/static/*", s.handleStatic)
	s.router.Get("/config", s.handleConfig)
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/tools", s.handleListTools)
	s.router.Post("/call_tool", s.handleCallTool)

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

// Run creates the static directory if needed and serves the UI on the
// configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.ensureStaticDir(); err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              s.cfg.UIAddr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("web server starting", "url", "http://"+s.cfg.UIAddr())
	return httpserve.ListenAndServe(ctx, srv, s.log)
}

func (s *Server) ensureStaticDir() error {
	_, err := os.Stat(s.cfg.StaticDir)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat static dir: %w", err)
	}
	if err := os.MkdirAll(s.cfg.StaticDir, 0o755); err != nil {
		return fmt.Errorf("create static dir: %w", err)
	}
	s.log.Info("created static directory", "dir", s.cfg.StaticDir)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type configResponse struct {
	MCPHost string `json:"mcp_host"`
	MCPPort int    `json:"mcp_port"`
	UIHost  string `json:"ui_host"`
	UIPort  int    `json:"ui_port"`
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{
		MCPHost: s.cfg.MCPHost,
		MCPPort: s.cfg.MCPPort,
		UIHost:  s.cfg.UIHost,
		UIPort:  s.cfg.UIPort,
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.dispatcher.Tools()})
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		err = fmt.Errorf("%w: read body: %v", dispatch.ErrMalformedRequest, err)
		writeJSON(w, http.StatusBadRequest, dispatch.NewError(err))
		return
	}
	req, err := s.decodeToolRequest(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dispatch.NewError(err))
		return
	}

	result, err := s.dispatcher.Call(r.Context(), req)
	if err != nil {
		status := dispatch.StatusCode(err)
		if status >= http.StatusInternalServerError {
			s.log.ErrorContext(r.Context(), "call_tool failed", "tool", req.Name, "error", err)
		}
		writeJSON(w, status, dispatch.NewError(err))
		return
	}
	writeJSON(w, http.StatusOK, dispatch.NewResult(result))
}

func (s *Server) decodeToolRequest(body []byte) (dispatch.ToolRequest, error) {
	var req dispatch.ToolRequest
	err := json.Unmarshal(body, &req)
	if err != nil && s.cfg.LenientJSON {
		if repaired, rerr := jsonrepair.JSONRepair(string(body)); rerr == nil {
			req = dispatch.ToolRequest{}
			if json.Unmarshal([]byte(repaired), &req) == nil {
				s.log.Debug("repaired malformed call_tool body")
				err = nil
			}
		}
	}
	if err != nil {
		return dispatch.ToolRequest{}, fmt.Errorf("%w: invalid JSON: %v", dispatch.ErrMalformedRequest, err)
	}
	if req.Name == "" {
		return dispatch.ToolRequest{}, fmt.Errorf("%w: missing tool name", dispatch.ErrMalformedRequest)
	}
	return req, nil
}
