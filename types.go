package drawioexport

import (
	"fmt"
	"time"
)

// Render option defaults.
const (
	// DefaultScale is the engine resolution multiplier when none is given.
	DefaultScale = 1.0

	// DefaultBorder is the padding around content when none is given.
	DefaultBorder = 0
)

// Request contains render parameters for one diagram.
type Request struct {
	XML    string  // raw diagram XML (required, passed to the engine uninterpreted)
	Format string  // output directive, e.g. "png", "pdf", "cat-pdf"
	Scale  float64 // resolution multiplier (0 = DefaultScale)
	Border int     // padding around content in output units
}

// Validate checks that required fields are present and sane.
func (r Request) Validate() error {
	if r.XML == "" {
		return ErrEmptyDiagram
	}
	if r.Scale < 0 {
		return fmt.Errorf("%w: %.2f (must be positive)", ErrInvalidScale, r.Scale)
	}
	if r.Border < 0 {
		return fmt.Errorf("%w: %d (must not be negative)", ErrInvalidBorder, r.Border)
	}
	return nil
}

// effectiveScale returns the scale to hand to the engine.
func (r Request) effectiveScale() float64 {
	if r.Scale == 0 {
		return DefaultScale
	}
	return r.Scale
}

// Option configures an Exporter.
type Option func(*Exporter)

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	timeout    time.Duration
	cacheDir   string
	browserBin string
}

// defaultTimeout bounds each browser step when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-step browser timeout (navigation, render wait,
// capture). Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("drawioexport: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithCacheDir overrides the engine asset cache directory. When unset the
// directory is resolved from the environment with a deterministic fallback.
func WithCacheDir(dir string) Option {
	return func(e *Exporter) {
		e.cfg.cacheDir = dir
	}
}

// WithBrowserBin sets the browser executable to launch. When unset the
// DRAWIO_EXPORT_BROWSER_BIN and ROD_BROWSER_BIN environment variables are
// consulted, then rod's own browser resolution.
func WithBrowserBin(path string) Option {
	return func(e *Exporter) {
		e.cfg.browserBin = path
	}
}
