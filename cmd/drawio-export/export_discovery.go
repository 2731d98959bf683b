package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	drawioexport "github.com/rbellek/go-drawio-export"
)

// diagramExtensions lists recognized diagram file extensions.
var diagramExtensions = []string{".drawio", ".xml"}

// isDiagramFile reports whether the path has a recognized diagram extension.
func isDiagramFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range diagramExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// validateDiagramExtension checks that the file has a recognized extension.
func validateDiagramExtension(path string) error {
	if !isDiagramFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// discoverFiles finds all diagram files to export.
// A single file is validated and returned as a one-element batch;
// a directory is walked recursively for .drawio and .xml files.
func discoverFiles(inputPath, outputDir string, kind drawioexport.Kind) ([]FileToExport, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateDiagramExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", kind)
		return []FileToExport{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToExport
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isDiagramFile(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, kind)
		files = append(files, FileToExport{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the output path for a diagram file.
// The artifact extension follows the format kind (.png or .pdf).
func resolveOutputPath(inputPath, outputDir, baseInputDir string, kind drawioexport.Kind) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)
	// "diagram.drawio.xml" sheds both extensions
	base = strings.TrimSuffix(base, ".drawio")
	artifactExt := "." + string(kind)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+artifactExt)
	}

	if strings.HasSuffix(outputDir, artifactExt) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+artifactExt)
		}
	}

	return filepath.Join(outputDir, base+artifactExt)
}
