// Package drawioexport converts draw.io diagram XML to PNG or PDF using
// headless Chrome.
//
// # Quick Start
//
// Create an exporter, render a diagram, and close when done:
//
//	exp := drawioexport.New()
//	defer exp.Close()
//
//	artifact, err := exp.Render(ctx, drawioexport.Request{
//	    XML:    diagramXML,
//	    Format: "png",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("diagram.png", artifact, 0644)
//
// The diagram XML is passed to the rendering engine uninterpreted; this
// package never inspects diagram semantics.
//
// # Formats
//
// The format string selects the output: "png" or "pdf" render a single page
// (the first, for multi-page documents), and "cat-pdf" renders every page of
// a multi-page document and concatenates them into one PDF in page order.
// The split- family of formats implies one output file per page and is
// rejected as unsupported.
//
// # Render Pipeline
//
// Each Render call follows these stages:
//
//  1. Request validation and format parsing (fails before any expensive work)
//  2. Engine asset cache warm-up (one-time download, shared across renders)
//  3. Browser session: load the engine, inject the document, render each page
//  4. Page aggregation for cat-pdf (pdfcpu merge, page order preserved)
//
// The engine's own network requests are served from the local asset cache, so
// a warm cache renders without touching the asset origin.
//
// # Configuration
//
// Use functional options to customize the exporter:
//
//	exp := drawioexport.New(
//	    drawioexport.WithTimeout(time.Minute),
//	    drawioexport.WithCacheDir("/var/cache/drawio-export"),
//	    drawioexport.WithBrowserBin("/usr/bin/chromium"),
//	)
//
// # Parallel Processing
//
// For batch rendering, use ExporterPool to manage multiple browser instances:
//
//	pool := drawioexport.NewExporterPool(4)
//	defer pool.Close()
//
//	exp, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(exp)
//	artifact, err := exp.Render(ctx, req)
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The go-rod library downloads a managed
// Chromium on first run if none is found. Use DRAWIO_EXPORT_BROWSER_BIN (or
// rod's ROD_BROWSER_BIN) to point at an installed browser, and
// DRAWIO_EXPORT_CACHE_DIR to relocate the engine asset cache.
package drawioexport
