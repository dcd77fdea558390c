// Command calc-mcp serves the calculator tools over MCP and a small web UI.
//
// Usage:
//
//	calc-mcp serve [--config calc.yaml]   # web UI and MCP server
//	calc-mcp web                          # web UI only
//	calc-mcp mcp [--stdio]                # MCP server only
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
