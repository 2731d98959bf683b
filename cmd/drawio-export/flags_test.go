package main

// Notes:
// - parseExportFlags / parseServeFlags: we test long and short spellings,
//   positional argument passthrough, and parse errors for unknown flags.

import (
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseExportFlags
// ---------------------------------------------------------------------------

func TestParseExportFlags(t *testing.T) {
	t.Parallel()

	t.Run("long flags", func(t *testing.T) {
		t.Parallel()
		flags, positional, err := parseExportFlags([]string{
			"--format", "cat-pdf",
			"--output", "/out",
			"--input-dir", "/diagrams",
			"--output-dir", "/artifacts",
			"--workers", "4",
			"--timeout", "45s",
			"--scale", "2.0",
			"--border", "10",
			"--config", "ci",
			"--quiet",
			"diagram.drawio",
		})
		if err != nil {
			t.Fatalf("parseExportFlags() error = %v", err)
		}

		if flags.format != "cat-pdf" {
			t.Errorf("format = %q, want cat-pdf", flags.format)
		}
		if flags.output != "/out" {
			t.Errorf("output = %q, want /out", flags.output)
		}
		if flags.inputDir != "/diagrams" {
			t.Errorf("inputDir = %q, want /diagrams", flags.inputDir)
		}
		if flags.outputDir != "/artifacts" {
			t.Errorf("outputDir = %q, want /artifacts", flags.outputDir)
		}
		if flags.workers != 4 {
			t.Errorf("workers = %d, want 4", flags.workers)
		}
		if flags.timeout != "45s" {
			t.Errorf("timeout = %q, want 45s", flags.timeout)
		}
		if flags.render.scale != 2.0 {
			t.Errorf("scale = %v, want 2.0", flags.render.scale)
		}
		if flags.render.border != 10 {
			t.Errorf("border = %d, want 10", flags.render.border)
		}
		if flags.common.config != "ci" {
			t.Errorf("config = %q, want ci", flags.common.config)
		}
		if !flags.common.quiet {
			t.Error("quiet = false, want true")
		}
		if len(positional) != 1 || positional[0] != "diagram.drawio" {
			t.Errorf("positional = %v, want [diagram.drawio]", positional)
		}
	})

	t.Run("short flags", func(t *testing.T) {
		t.Parallel()
		flags, _, err := parseExportFlags([]string{"-f", "pdf", "-o", "out.pdf", "-w", "2", "-v"})
		if err != nil {
			t.Fatalf("parseExportFlags() error = %v", err)
		}

		if flags.format != "pdf" {
			t.Errorf("format = %q, want pdf", flags.format)
		}
		if flags.output != "out.pdf" {
			t.Errorf("output = %q, want out.pdf", flags.output)
		}
		if flags.workers != 2 {
			t.Errorf("workers = %d, want 2", flags.workers)
		}
		if !flags.common.verbose {
			t.Error("verbose = false, want true")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		flags, positional, err := parseExportFlags(nil)
		if err != nil {
			t.Fatalf("parseExportFlags() error = %v", err)
		}

		if flags.format != "" || flags.output != "" || flags.workers != 0 {
			t.Errorf("expected zero-value flags, got %+v", flags)
		}
		if len(positional) != 0 {
			t.Errorf("positional = %v, want empty", positional)
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()
		if _, _, err := parseExportFlags([]string{"--no-such-flag"}); err == nil {
			t.Error("expected error for unknown flag")
		}
	})
}

// ---------------------------------------------------------------------------
// TestParseServeFlags
// ---------------------------------------------------------------------------

func TestParseServeFlags(t *testing.T) {
	t.Parallel()

	t.Run("long flags", func(t *testing.T) {
		t.Parallel()
		flags, err := parseServeFlags([]string{"--listen", ":9000", "--workers", "2", "--timeout", "1m"})
		if err != nil {
			t.Fatalf("parseServeFlags() error = %v", err)
		}

		if flags.listen != ":9000" {
			t.Errorf("listen = %q, want :9000", flags.listen)
		}
		if flags.workers != 2 {
			t.Errorf("workers = %d, want 2", flags.workers)
		}
		if flags.timeout != "1m" {
			t.Errorf("timeout = %q, want 1m", flags.timeout)
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()
		if _, err := parseServeFlags([]string{"--bogus"}); err == nil {
			t.Error("expected error for unknown flag")
		}
	})
}
