package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rbellek/go-drawio-export/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // DRAWIO_EXPORT_CONFIG: config file path
	Format     string // DRAWIO_EXPORT_FORMAT: output format directive
	Timeout    string // DRAWIO_EXPORT_TIMEOUT: render timeout
	Workers    int    // DRAWIO_EXPORT_WORKERS: parallel workers
	InputDir   string // DRAWIO_EXPORT_INPUT_DIR: default input directory
	OutputDir  string // DRAWIO_EXPORT_OUTPUT_DIR: default output directory
	Listen     string // DRAWIO_EXPORT_LISTEN: serve listen address
}

// knownEnvVars lists valid DRAWIO_EXPORT_* environment variables.
// Used to detect typos and warn users about unknown variables.
// CACHE_DIR, BROWSER_BIN and CONTAINER are consumed by the library
// and doctor command but listed here so they don't trigger warnings.
var knownEnvVars = map[string]bool{
	"DRAWIO_EXPORT_CONFIG":      true,
	"DRAWIO_EXPORT_FORMAT":      true,
	"DRAWIO_EXPORT_TIMEOUT":     true,
	"DRAWIO_EXPORT_WORKERS":     true,
	"DRAWIO_EXPORT_INPUT_DIR":   true,
	"DRAWIO_EXPORT_OUTPUT_DIR":  true,
	"DRAWIO_EXPORT_LISTEN":      true,
	"DRAWIO_EXPORT_CACHE_DIR":   true,
	"DRAWIO_EXPORT_BROWSER_BIN": true,
	"DRAWIO_EXPORT_CONTAINER":   true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized DRAWIO_EXPORT_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("DRAWIO_EXPORT_CONFIG"),
		Format:     os.Getenv("DRAWIO_EXPORT_FORMAT"),
		Timeout:    os.Getenv("DRAWIO_EXPORT_TIMEOUT"),
		InputDir:   os.Getenv("DRAWIO_EXPORT_INPUT_DIR"),
		OutputDir:  os.Getenv("DRAWIO_EXPORT_OUTPUT_DIR"),
		Listen:     os.Getenv("DRAWIO_EXPORT_LISTEN"),
	}

	if workers := os.Getenv("DRAWIO_EXPORT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized DRAWIO_EXPORT_* variables.
// Helps catch typos like DRAWIO_EXPORT_FORMT instead of DRAWIO_EXPORT_FORMAT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "DRAWIO_EXPORT_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config, overriding
// whatever the config file provided. CLI flags are applied afterwards by the
// resolve functions, giving: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Format != "" {
		cfg.Format = env.Format
	}
	if env.Timeout != "" {
		cfg.Timeout = env.Timeout
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Listen != "" {
		cfg.Server.Listen = env.Listen
	}
}
