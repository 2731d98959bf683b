package drawioexport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/rbellek/go-drawio-export/internal/assetcache"
	"github.com/rbellek/go-drawio-export/internal/process"
)

// EnvBrowserBin overrides the browser executable used for rendering.
// Rod's own ROD_BROWSER_BIN is honored as a fallback.
const EnvBrowserBin = "DRAWIO_EXPORT_BROWSER_BIN"

// completionMarker is the element the engine appends once a render pass has
// finished; its bounds attribute carries the rendered content dimensions.
const completionMarker = "#LoadingComplete"

// pixelsPerInch converts reported pixel bounds to print points for PDF capture.
const pixelsPerInch = 96.0

// sessionConfig holds launch parameters for a rod session.
type sessionConfig struct {
	timeout    time.Duration
	browserBin string
}

// rodSession implements renderSession on a headless Chromium instance driven
// by go-rod. The lifecycle is strictly launch, load engine, inject document,
// render pages, close; a session never outlives the Render call that made it.
type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	router   *rod.HijackRouter
	timeout  time.Duration
	closed   bool
}

// Compile-time interface check.
var _ renderSession = (*rodSession)(nil)

// newRodSession launches a browser, installs hermetic asset serving from the
// store, and navigates to the engine bootstrap page. On any failure the
// half-built session is torn down before the error returns.
func newRodSession(cfg sessionConfig, assets assetStore) (*rodSession, error) {
	// NoSandbox for container compatibility; the engine page only ever loads
	// cached first-party assets.
	l := launcher.New().Headless(true).NoSandbox(true)

	bin := cfg.browserBin
	if bin == "" {
		bin = os.Getenv(EnvBrowserBin)
	}
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	s := &rodSession{launcher: l, browser: browser, timeout: cfg.timeout}
	if err := s.loadEngine(assets); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// loadEngine opens the page, wires request interception against the asset
// store, and waits for the engine's render entry point to become available.
func (s *rodSession) loadEngine(assets assetStore) error {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	s.page = page

	router := page.HijackRequests()
	err = router.Add("*", "", func(h *rod.Hijack) {
		url := h.Request.URL().String()
		local, ok := assets.Resolve(url)
		if !ok {
			h.ContinueRequest(&proto.FetchContinueRequest{})
			return
		}
		body, err := os.ReadFile(local) // #nosec G304 -- path comes from the fixed manifest
		if err != nil {
			// Hermetic serving: a known asset never falls through to the
			// live network, even when its cached copy is unreadable.
			h.Response.Fail(proto.NetworkErrorReasonFailed)
			return
		}
		h.Response.SetHeader("Content-Type", assetContentType(local))
		h.Response.SetBody(body)
	})
	if err != nil {
		return fmt.Errorf("%w: installing request interception: %v", ErrEngineLoad, err)
	}
	s.router = router
	go router.Run()

	p := page.Timeout(s.timeout)
	wait := p.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := p.Navigate(assetcache.EngineBootstrapURL); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineLoad, err)
	}
	wait()

	// The bootstrap page defines render() and the mxGraph utilities; reaching
	// network idle without them means the engine failed to initialize.
	if err := p.Wait(rod.Eval(`() => typeof render === 'function' && typeof mxUtils !== 'undefined'`)); err != nil {
		return fmt.Errorf("%w: engine entry points unavailable: %v", ErrEngineLoad, err)
	}
	return nil
}

// Load hands the raw XML to the engine's own parser and reads the page count
// from the document root, defaulting to 1 when the attribute is absent.
func (s *rodSession) Load(ctx context.Context, xml string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	page := s.page.Context(ctx).Timeout(s.timeout)
	obj, err := page.Eval(`(xml) => {
		window.exportDoc = mxUtils.parseXml(xml);
		const pages = parseInt(window.exportDoc.documentElement.getAttribute('pages'), 10);
		return Number.isFinite(pages) && pages > 0 ? pages : 1;
	}`, xml)
	if err != nil {
		return 0, fmt.Errorf("%w: injecting document: %v", ErrRenderFailed, err)
	}

	pages := obj.Value.Int()
	if pages < 1 {
		pages = 1
	}
	return pages, nil
}

// renderPageJS peels one page out of the injected document and starts a render
// pass. The sub-document keeps the root's first non-element child (header or
// metadata node the engine expects ahead of the page body) plus exactly one
// diagram element; cloning leaves the injected document intact for later pages.
const renderPageJS = `(index, format, scale, border) => {
	const prev = document.getElementById('LoadingComplete');
	if (prev) {
		prev.parentNode.removeChild(prev);
	}
	const root = window.exportDoc.documentElement;
	const sub = root.cloneNode(false);
	if (root.firstChild && root.firstChild.nodeType !== 1) {
		sub.appendChild(root.firstChild.cloneNode(true));
	}
	const diagrams = root.getElementsByTagName('diagram');
	if (index >= diagrams.length) {
		throw new Error('page index out of range: ' + index);
	}
	sub.appendChild(diagrams[index].cloneNode(true));
	render({
		xml: mxUtils.getXml(sub),
		format: format,
		scale: scale,
		border: border,
		w: 0,
		h: 0
	});
}`

// pageBounds is the engine-reported content box from the completion marker.
type pageBounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderPage runs one render pass: start the engine render, wait for the
// completion marker, size the viewport to the reported bounds, and capture.
func (s *rodSession) RenderPage(ctx context.Context, index int, p pageParams) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := s.page.Context(ctx).Timeout(s.timeout)

	if _, err := page.Eval(renderPageJS, index, string(p.Kind), p.Scale, p.Border); err != nil {
		return nil, fmt.Errorf("%w: starting render: %v", ErrRenderFailed, err)
	}

	marker, err := page.Element(completionMarker)
	if err != nil {
		return nil, fmt.Errorf("%w: waiting for completion marker: %v", ErrRenderFailed, err)
	}

	bounds, err := readBounds(marker)
	if err != nil {
		return nil, err
	}

	width := int(math.Ceil(bounds.Width))
	height := int(math.Ceil(bounds.Height))
	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: sizing viewport: %v", ErrRenderFailed, err)
	}

	if p.Kind == KindPDF {
		return capturePDF(page, bounds)
	}
	return capturePNG(page)
}

// readBounds extracts and validates the content bounds the engine reported.
func readBounds(marker *rod.Element) (pageBounds, error) {
	attr, err := marker.Attribute("bounds")
	if err != nil || attr == nil {
		return pageBounds{}, fmt.Errorf("%w: completion marker carries no bounds", ErrRenderFailed)
	}

	var b pageBounds
	if err := json.Unmarshal([]byte(*attr), &b); err != nil {
		return pageBounds{}, fmt.Errorf("%w: unreadable bounds %q: %v", ErrRenderFailed, *attr, err)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return pageBounds{}, fmt.Errorf("%w: degenerate bounds %q", ErrRenderFailed, *attr)
	}
	return b, nil
}

// capturePNG takes a full-page screenshot over a transparent background.
func capturePNG(page *rod.Page) ([]byte, error) {
	err := proto.EmulationSetDefaultBackgroundColorOverride{
		Color: &proto.DOMRGBA{R: 0, G: 0, B: 0, A: floatPtr(0)},
	}.Call(page)
	if err != nil {
		return nil, fmt.Errorf("%w: clearing background: %v", ErrRenderFailed, err)
	}

	bin, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: capturing screenshot: %v", ErrRenderFailed, err)
	}
	return bin, nil
}

// capturePDF prints the page sized exactly to the reported bounds, with one
// pixel of height headroom so content at the bottom edge is never clipped.
func capturePDF(page *rod.Page, b pageBounds) ([]byte, error) {
	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(b.Width / pixelsPerInch),
		PaperHeight:     floatPtr((b.Height + 1) / pixelsPerInch),
		MarginTop:       floatPtr(0),
		MarginBottom:    floatPtr(0),
		MarginLeft:      floatPtr(0),
		MarginRight:     floatPtr(0),
		PrintBackground: false,
		PageRanges:      "1",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: printing page: %v", ErrRenderFailed, err)
	}

	buf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrRenderFailed, err)
	}
	return buf, nil
}

// Close tears the browser process down. Safe to call more than once; every
// exit path of a render goes through here exactly once effectively.
func (s *rodSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.router != nil {
		if err := s.router.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.launcher != nil {
		s.launcher.Kill()
		// Chromium spawns renderer and GPU children that can outlive the
		// main process; sweep the whole group.
		if pid := s.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		s.launcher.Cleanup()
	}
	return errors.Join(errs...)
}

// assetContentType guesses the MIME type for a cached asset from its name.
func assetContentType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
