package main

import (
	"errors"
	"os"

	drawioexport "github.com/rbellek/go-drawio-export"
	"github.com/rbellek/go-drawio-export/internal/config"
)

// Exit codes for drawio-export CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful export
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/render errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser / render errors (exit 4)
	if errors.Is(err, drawioexport.ErrBrowserConnect) ||
		errors.Is(err, drawioexport.ErrPageCreate) ||
		errors.Is(err, drawioexport.ErrEngineLoad) ||
		errors.Is(err, drawioexport.ErrRenderFailed) ||
		errors.Is(err, drawioexport.ErrMergeFailed) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, drawioexport.ErrCacheFetch) ||
		errors.Is(err, ErrReadDiagram) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, drawioexport.ErrEmptyDiagram) ||
		errors.Is(err, drawioexport.ErrInvalidFormat) ||
		errors.Is(err, drawioexport.ErrUnsupportedFormat) ||
		errors.Is(err, drawioexport.ErrInvalidScale) ||
		errors.Is(err, drawioexport.ErrInvalidBorder) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
