package main

// Notes:
// - discoverFiles: we test single file, directory walk, extension filtering,
//   and missing input. Output paths are derived from the format kind.
// - resolveOutputPath: we test the ".drawio.xml" double extension and the
//   explicit output file case.

import (
	"os"
	"path/filepath"
	"testing"

	drawioexport "github.com/rbellek/go-drawio-export"
)

func writeTestFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("creating dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("<mxfile/>"), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestDiscoverFiles
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	t.Run("single file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		input := filepath.Join(dir, "flow.drawio")
		writeTestFile(t, input)

		files, err := discoverFiles(input, "", drawioexport.KindPNG)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}

		if len(files) != 1 {
			t.Fatalf("len(files) = %d, want 1", len(files))
		}
		want := filepath.Join(dir, "flow.png")
		if files[0].OutputPath != want {
			t.Errorf("OutputPath = %q, want %q", files[0].OutputPath, want)
		}
	})

	t.Run("single file with wrong extension", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		input := filepath.Join(dir, "notes.txt")
		writeTestFile(t, input)

		if _, err := discoverFiles(input, "", drawioexport.KindPNG); err == nil {
			t.Error("expected error for .txt input")
		}
	})

	t.Run("directory walk filters extensions", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeTestFile(t, filepath.Join(dir, "a.drawio"))
		writeTestFile(t, filepath.Join(dir, "b.xml"))
		writeTestFile(t, filepath.Join(dir, "sub", "c.drawio"))
		writeTestFile(t, filepath.Join(dir, "README.md"))

		files, err := discoverFiles(dir, "", drawioexport.KindPDF)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}

		if len(files) != 3 {
			t.Fatalf("len(files) = %d, want 3", len(files))
		}
		for _, f := range files {
			if filepath.Ext(f.OutputPath) != ".pdf" {
				t.Errorf("OutputPath = %q, want .pdf extension", f.OutputPath)
			}
		}
	})

	t.Run("directory walk preserves structure under output dir", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		outDir := t.TempDir()
		writeTestFile(t, filepath.Join(dir, "sub", "nested.drawio"))

		files, err := discoverFiles(dir, outDir, drawioexport.KindPNG)
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}

		if len(files) != 1 {
			t.Fatalf("len(files) = %d, want 1", len(files))
		}
		want := filepath.Join(outDir, "sub", "nested.png")
		if files[0].OutputPath != want {
			t.Errorf("OutputPath = %q, want %q", files[0].OutputPath, want)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()
		if _, err := discoverFiles(filepath.Join(t.TempDir(), "absent"), "", drawioexport.KindPNG); err == nil {
			t.Error("expected error for missing input")
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		inputPath    string
		outputDir    string
		baseInputDir string
		kind         drawioexport.Kind
		want         string
	}{
		{
			name:      "next to source",
			inputPath: filepath.Join("docs", "flow.drawio"),
			kind:      drawioexport.KindPNG,
			want:      filepath.Join("docs", "flow.png"),
		},
		{
			name:      "double extension sheds both",
			inputPath: filepath.Join("docs", "flow.drawio.xml"),
			kind:      drawioexport.KindPDF,
			want:      filepath.Join("docs", "flow.pdf"),
		},
		{
			name:      "explicit output file",
			inputPath: "flow.drawio",
			outputDir: filepath.Join("out", "custom.png"),
			kind:      drawioexport.KindPNG,
			want:      filepath.Join("out", "custom.png"),
		},
		{
			name:         "relative structure under output dir",
			inputPath:    filepath.Join("src", "sub", "flow.drawio"),
			outputDir:    "out",
			baseInputDir: "src",
			kind:         drawioexport.KindPDF,
			want:         filepath.Join("out", "sub", "flow.pdf"),
		},
		{
			name:      "flat output dir",
			inputPath: "flow.xml",
			outputDir: "out",
			kind:      drawioexport.KindPNG,
			want:      filepath.Join("out", "flow.png"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := resolveOutputPath(tt.inputPath, tt.outputDir, tt.baseInputDir, tt.kind)
			if got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateDiagramExtension
// ---------------------------------------------------------------------------

func TestValidateDiagramExtension(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"a.drawio", "b.xml", "c.DRAWIO", "d.drawio.xml"} {
		if err := validateDiagramExtension(path); err != nil {
			t.Errorf("validateDiagramExtension(%q) = %v, want nil", path, err)
		}
	}

	for _, path := range []string{"a.txt", "b.png", "c"} {
		if err := validateDiagramExtension(path); err == nil {
			t.Errorf("validateDiagramExtension(%q) = nil, want error", path)
		}
	}
}
