package drawioexport

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyDiagram = errors.New("diagram XML cannot be empty")

	// Format directive errors.
	ErrInvalidFormat     = errors.New("invalid output format")
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// Request validation errors.
	ErrInvalidScale  = errors.New("invalid scale")
	ErrInvalidBorder = errors.New("invalid border")

	// Asset acquisition errors.
	ErrCacheFetch = errors.New("failed to fetch engine asset")

	// Browser session errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrEngineLoad     = errors.New("failed to load rendering engine")
	ErrRenderFailed   = errors.New("render failed")

	// Aggregation errors.
	ErrMergeFailed = errors.New("failed to merge page documents")

	// Pool errors.
	ErrPoolClosed = errors.New("exporter pool is closed")
)
