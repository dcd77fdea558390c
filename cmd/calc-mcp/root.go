package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"calc-mcp/internal/calc"
	"calc-mcp/internal/config"
	"calc-mcp/internal/dispatch"
	"calc-mcp/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "calc-mcp",
	Short: "Arithmetic tools over MCP and a small web UI",
	Long: `calc-mcp exposes add, subtract, multiply and divide through two front ends:
an MCP server for agents and an HTTP server with a browser UI and a
/call_tool JSON endpoint. Both share the same dispatcher.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CALC_CONFIG"), "path to a YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.Version = version
}

// bootstrap loads the configuration, configures logging and builds the
// dispatcher shared by both front ends.
func bootstrap() (config.Config, *dispatch.Dispatcher, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	logging.Init(level, cfg.LogFormat)
	slog.Debug("configuration loaded", "ui", cfg.UIAddr(), "mcp", cfg.MCPAddr(), "static_dir", cfg.StaticDir)

	d := dispatch.New(calc.New(logging.New("calc")), logging.New("dispatch"))
	return cfg, d, nil
}
