package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("loads from explicit path", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "export.yaml", `
format: cat-pdf
scale: 2.0
border: 10
workers: 4
cache:
  dir: /var/cache/drawio-export
server:
  listen: ":9000"
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Format != "cat-pdf" {
			t.Errorf("Format = %q, want %q", cfg.Format, "cat-pdf")
		}
		if cfg.Scale != 2.0 {
			t.Errorf("Scale = %v, want 2.0", cfg.Scale)
		}
		if cfg.Border != 10 {
			t.Errorf("Border = %d, want 10", cfg.Border)
		}
		if cfg.Cache.Dir != "/var/cache/drawio-export" {
			t.Errorf("Cache.Dir = %q", cfg.Cache.Dir)
		}
		if cfg.Server.Listen != ":9000" {
			t.Errorf("Server.Listen = %q, want :9000", cfg.Server.Listen)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("empty name is an error", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("LoadConfig() error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "export.yaml", "fromat: png\n")

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("resolves name in user config dir", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", home)
		dir := filepath.Join(home, "drawio-export")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		writeConfig(t, dir, "batch.yaml", "format: pdf\n")

		cfg, err := LoadConfig("batch")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Format != "pdf" {
			t.Errorf("Format = %q, want pdf", cfg.Format)
		}
	})

	t.Run("lists searched paths when name unresolved", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		_, err := LoadConfig("nonexistent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "nonexistent.yaml") {
			t.Errorf("error %q does not list searched paths", err)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"negative scale", func(c *Config) { c.Scale = -1 }, true},
		{"negative border", func(c *Config) { c.Border = -5 }, true},
		{"workers above cap", func(c *Config) { c.Workers = MaxWorkers + 1 }, true},
		{"overlong format", func(c *Config) { c.Format = strings.Repeat("x", MaxFormatLength+1) }, true},
		{"overlong cache dir", func(c *Config) { c.Cache.Dir = strings.Repeat("p", MaxPathLength+1) }, true},
		{"valid custom values", func(c *Config) {
			c.Format = "cat-pdf"
			c.Scale = 1.5
			c.Workers = 8
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
