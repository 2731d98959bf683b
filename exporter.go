package drawioexport

import (
	"context"
	"fmt"

	"github.com/rbellek/go-drawio-export/internal/assetcache"
)

// assetStore provides the engine assets a render session depends on: EnsureAll
// makes the manifest locally available, Resolve maps engine request URLs to
// the cached files serving them.
type assetStore interface {
	EnsureAll(ctx context.Context) error
	Resolve(url string) (path string, ok bool)
}

// renderSession drives one browser instance bound to one loaded copy of the
// rendering engine and one injected diagram document.
type renderSession interface {
	// Load injects the raw diagram XML and returns the document's page count.
	Load(ctx context.Context, xml string) (pages int, err error)

	// RenderPage renders one page and returns the captured artifact bytes.
	RenderPage(ctx context.Context, index int, p pageParams) ([]byte, error)

	// Close tears the browser down. Idempotent.
	Close() error
}

// sessionFactory opens a fresh render session. One session serves exactly one
// Render call; sessions are never shared or reused.
type sessionFactory func(assets assetStore) (renderSession, error)

// pageParams carries the engine-facing render parameters for one page.
type pageParams struct {
	Kind   Kind
	Scale  float64
	Border int
}

// Compile-time interface check.
var _ assetStore = (*assetcache.Cache)(nil)

// Exporter converts diagram XML into rendered artifacts. Safe for sequential
// reuse; for parallel front-ends use one Exporter per worker (see ExporterPool).
type Exporter struct {
	cfg        exporterConfig
	assets     assetStore
	newSession sessionFactory
	merger     pageMerger
}

// New creates an Exporter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithCacheDir).
func New(opts ...Option) *Exporter {
	e := &Exporter{
		cfg: exporterConfig{timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(e)
	}

	// Create collaborators if not injected (e.g., by tests)
	if e.assets == nil {
		dir := e.cfg.cacheDir
		if dir == "" {
			dir = assetcache.DefaultDir()
		}
		e.assets = assetcache.New(dir)
	}
	if e.merger == nil {
		e.merger = pdfMerger{}
	}
	if e.newSession == nil {
		cfg := sessionConfig{timeout: e.cfg.timeout, browserBin: e.cfg.browserBin}
		e.newSession = func(assets assetStore) (renderSession, error) {
			return newRodSession(cfg, assets)
		}
	}

	return e
}

// Render converts the diagram in req into artifact bytes according to the
// requested format directive. Invalid or unsupported formats fail before any
// asset fetch or browser launch; the browser session opened for a render is
// closed on every exit path.
func (e *Exporter) Render(ctx context.Context, req Request) (artifact []byte, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	format, err := ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}

	// Rendering without the full asset set is never attempted: a cold cache
	// that cannot be warmed aborts before a browser opens.
	if err := e.assets.EnsureAll(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheFetch, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess, err := e.newSession(e.assets)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing session: %w", cerr)
		}
	}()

	return e.renderPages(ctx, sess, req, format)
}

// renderPages runs the per-page protocol on an open session.
func (e *Exporter) renderPages(ctx context.Context, sess renderSession, req Request, format Format) ([]byte, error) {
	pages, err := sess.Load(ctx, req.XML)
	if err != nil {
		return nil, err
	}

	params := pageParams{
		Kind:   format.Kind,
		Scale:  req.effectiveScale(),
		Border: req.Border,
	}

	// Single-shot semantics: without the cat- modifier a multi-page document
	// yields its first page only. One-page concatenation degenerates to the
	// same thing, so the merger never sees fewer than two documents.
	if format.Mode == PageModeSingle || pages <= 1 {
		return sess.RenderPage(ctx, 0, params)
	}

	docs := make([][]byte, 0, pages)
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := sess.RenderPage(ctx, i, params)
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", i, err)
		}
		docs = append(docs, doc)
	}

	return e.merger.Merge(docs)
}

// Close releases resources held by the Exporter. Each Render call owns and
// tears down its browser session, so there is nothing long-lived to release;
// Close exists so pools and front-ends can manage exporters uniformly.
func (e *Exporter) Close() error {
	return nil
}
