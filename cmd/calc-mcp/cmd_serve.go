package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"calc-mcp/internal/mcpserver"
	"calc-mcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI and the MCP server",
	Long: `Starts the HTTP web UI on HOST_UI:PORT_UI and the MCP streamable HTTP
server on HOST_MCP:PORT_MCP. If either server fails, both are shut down.`,
	RunE: runServe,
}

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start only the web UI",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, d, err := bootstrap()
		if err != nil {
			return err
		}
		return server.New(cfg, d).Run(cmd.Context())
	},
}

var mcpStdio bool

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start only the MCP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, d, err := bootstrap()
		if err != nil {
			return err
		}
		srv := mcpserver.New(cfg, d, version)
		if mcpStdio {
			return srv.RunStdio(cmd.Context())
		}
		return srv.Run(cmd.Context())
	},
}

func init() {
	mcpCmd.Flags().BoolVar(&mcpStdio, "stdio", false, "serve MCP over stdin/stdout instead of HTTP")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, d, err := bootstrap()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return mcpserver.New(cfg, d, version).Run(ctx)
	})
	g.Go(func() error {
		return server.New(cfg, d).Run(ctx)
	})
	return g.Wait()
}
