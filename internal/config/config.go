// Package config loads the process configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by both front ends. It is populated by
// Load and treated as read-only afterwards.
type Config struct {
	MCPHost string `yaml:"mcp_host"`
	MCPPort int    `yaml:"mcp_port"`
	UIHost  string `yaml:"ui_host"`
	UIPort  int    `yaml:"ui_port"`

	AppName   string `yaml:"app_name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	StaticDir string `yaml:"static_dir"`

	CORS CORSConfig `yaml:"cors"`

	LenientJSON    bool          `yaml:"lenient_json"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// CORSConfig is the set of Access-Control-Allow-* values sent with every response.
type CORSConfig struct {
	Origins string `yaml:"origins"`
	Methods string `yaml:"methods"`
	Headers string `yaml:"headers"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		MCPHost:   "127.0.0.1",
		MCPPort:   8000,
		UIHost:    "127.0.0.1",
		UIPort:    8001,
		AppName:   "Calculator Server",
		LogLevel:  "INFO",
		LogFormat: "text",
		StaticDir: "static",
		CORS: CORSConfig{
			Origins: "*",
			Methods: "GET,POST,OPTIONS",
			Headers: "Content-Type",
		},
		RequestTimeout: 60 * time.Second,
	}
}

// Load builds a Config from defaults, then the YAML file at path (if path is
// non-empty), then a .env file in the working directory, then the process
// environment. Later sources win.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.MCPHost = getEnv("HOST_MCP", c.MCPHost)
	c.UIHost = getEnv("HOST_UI", c.UIHost)
	c.AppName = getEnv("APP_NAME", c.AppName)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", c.LogFormat))
	c.StaticDir = getEnv("STATIC_DIR", c.StaticDir)
	c.CORS.Origins = getEnv("CORS_ORIGINS", c.CORS.Origins)
	c.CORS.Methods = getEnv("CORS_METHODS", c.CORS.Methods)
	c.CORS.Headers = getEnv("CORS_HEADERS", c.CORS.Headers)

	var err error
	if c.MCPPort, err = getEnvInt("PORT_MCP", c.MCPPort); err != nil {
		return err
	}
	if c.UIPort, err = getEnvInt("PORT_UI", c.UIPort); err != nil {
		return err
	}
	if v := os.Getenv("LENIENT_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LENIENT_JSON: %w", err)
		}
		c.LenientJSON = b
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		c.RequestTimeout = d
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := validPort("PORT_MCP", c.MCPPort); err != nil {
		return err
	}
	if err := validPort("PORT_UI", c.UIPort); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.StaticDir == "" {
		return errors.New("STATIC_DIR must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// MCPAddr is the listen address of the MCP front end.
func (c Config) MCPAddr() string { return fmt.Sprintf("%s:%d", c.MCPHost, c.MCPPort) }

// UIAddr is the listen address of the HTTP front end.
func (c Config) UIAddr() string { return fmt.Sprintf("%s:%d", c.UIHost, c.UIPort) }

func validPort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", name, port)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}
