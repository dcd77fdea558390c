package mcpserver_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"calc-mcp/internal/calc"
	"calc-mcp/internal/config"
	"calc-mcp/internal/dispatch"
	"calc-mcp/internal/mcpserver"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *mcpserver.Server {
	t.Helper()
	return mcpserver.New(config.Default(), dispatch.New(calc.New(nil), nil), "test")
}

func connectInMemory(t *testing.T, ctx context.Context, srv *mcpserver.Server) *sdkmcp.ClientSession {
	t.Helper()
	t1, t2 := sdkmcp.NewInMemoryTransports()
	serverSession, err := srv.MCPServer.Connect(ctx, t1, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func textOf(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(*sdkmcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatalf("no text content in tool result")
	return ""
}

func callResult(t *testing.T, ctx context.Context, session *sdkmcp.ClientSession, name string, x, y float64) float64 {
	t.Helper()
	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: map[string]any{"x": x, "y": y},
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if res.IsError {
		t.Fatalf("CallTool(%s) returned error: %s", name, textOf(t, res))
	}
	var out struct {
		Result float64 `json:"result"`
	}
	if err := json.Unmarshal([]byte(textOf(t, res)), &out); err != nil {
		t.Fatalf("unmarshal tool result: %v", err)
	}
	return out.Result
}

func TestServer_ToolDiscovery(t *testing.T) {
	ctx := context.Background()
	session := connectInMemory(t, ctx, newTestServer(t))

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	got := map[string]string{}
	for _, tool := range tools.Tools {
		got[tool.Name] = tool.Description
		schema, err := json.Marshal(tool.InputSchema)
		if err != nil {
			t.Fatalf("marshal schema: %v", err)
		}
		if !strings.Contains(string(schema), `"x"`) || !strings.Contains(string(schema), `"y"`) {
			t.Errorf("%s: schema lacks operands: %s", tool.Name, schema)
		}
	}
	want := map[string]string{
		"add":      "Add two numbers together",
		"subtract": "Subtract two numbers",
		"multiply": "Multiply two numbers",
		"divide":   "Divide two numbers",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tools mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_CallTools(t *testing.T) {
	ctx := context.Background()
	session := connectInMemory(t, ctx, newTestServer(t))

	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"add", 2, 3, 5},
		{"subtract", 2, 3, -1},
		{"multiply", 2.5, 4, 10},
		{"divide", 10, 4, 2.5},
	}
	for _, tc := range tests {
		if got := callResult(t, ctx, session, tc.name, tc.x, tc.y); got != tc.want {
			t.Errorf("%s(%v, %v) = %v, want %v", tc.name, tc.x, tc.y, got, tc.want)
		}
	}
}

func TestServer_DivideByZero(t *testing.T) {
	ctx := context.Background()
	session := connectInMemory(t, ctx, newTestServer(t))

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "divide",
		Arguments: map[string]any{"x": 1, "y": 0},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for division by zero")
	}
	if got := textOf(t, res); !strings.Contains(got, "Cannot divide by zero") {
		t.Errorf("unexpected error text %q", got)
	}
}

func TestServer_StreamableHTTP(t *testing.T) {
	ctx := context.Background()
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{Endpoint: ts.URL + "/mcp"}, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}
	defer session.Close()

	if got := callResult(t, ctx, session, "multiply", 6, 7); got != 42 {
		t.Errorf("multiply(6, 7) = %v, want 42", got)
	}
}

func TestServer_Health(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
