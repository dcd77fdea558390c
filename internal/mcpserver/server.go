// Package mcpserver exposes the calculator tools over the Model Context Protocol.
package mcpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"calc-mcp/internal/config"
	"calc-mcp/internal/dispatch"
	"calc-mcp/internal/httpserve"
	"calc-mcp/internal/logging"
)

// Server wraps the MCP SDK server. Every registered tool delegates to the
// shared dispatcher.
type Server struct {
	MCPServer *sdkmcp.Server

	cfg        config.Config
	dispatcher *dispatch.Dispatcher
	log        *slog.Logger
}

type operands struct {
	X float64 `json:"x" jsonschema:"first operand"`
	Y float64 `json:"y" jsonschema:"second operand"`
}

type output struct {
	Result float64 `json:"result" jsonschema:"result of the operation"`
}

// New creates an MCP server named after cfg.AppName with one tool per
// dispatcher operation.
func New(cfg config.Config, d *dispatch.Dispatcher, version string) *Server {
	s := &Server{
		cfg:        cfg,
		dispatcher: d,
		log:        logging.New("mcp"),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: cfg.AppName, Version: version},
		nil,
	)
	for _, t := range d.Tools() {
		sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
			Name:        t.Name,
			Description: t.Description,
		}, s.handle(t.Name))
	}
	return s
}

func (s *Server) handle(name string) sdkmcp.ToolHandlerFor[operands, output] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in operands) (*sdkmcp.CallToolResult, output, error) {
		v, err := s.dispatcher.Call(ctx, dispatch.ToolRequest{
			Name:      name,
			Arguments: map[string]any{"x": in.X, "y": in.Y},
		})
		if err != nil {
			s.log.WarnContext(ctx, "tool call failed", "tool", name, "error", err)
			return nil, output{}, err
		}
		return nil, output{Result: v}, nil
	}
}

// Handler returns the streamable HTTP endpoint, mounted at /mcp, plus /health.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	mcpHandler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return s.MCPServer
	}, nil)
	r.Handle("/mcp", mcpHandler)
	r.Handle("/mcp/", mcpHandler)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return r
}

// Run serves the streamable HTTP transport on the configured MCP address
// until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.MCPAddr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("MCP server starting", "url", "http://"+s.cfg.MCPAddr()+"/mcp")
	return httpserve.ListenAndServe(ctx, srv, s.log)
}

// RunStdio serves a single session over stdin/stdout.
func (s *Server) RunStdio(ctx context.Context) error {
	s.log.Info("MCP server starting over stdio")
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
