package drawioexport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// Mock implementations for testing.

type mockAssets struct {
	ensureCalls int
	ensureErr   error
}

func (m *mockAssets) EnsureAll(ctx context.Context) error {
	m.ensureCalls++
	return m.ensureErr
}

func (m *mockAssets) Resolve(url string) (string, bool) {
	return "", false
}

type mockSession struct {
	pages      int
	loadErr    error
	renderErr  error
	failAtPage int // -1 = never fail
	rendered   []int
	closeCalls int
}

func (m *mockSession) Load(ctx context.Context, xml string) (int, error) {
	if m.loadErr != nil {
		return 0, m.loadErr
	}
	if m.pages == 0 {
		m.pages = 1
	}
	return m.pages, nil
}

func (m *mockSession) RenderPage(ctx context.Context, index int, p pageParams) ([]byte, error) {
	if m.renderErr != nil && index == m.failAtPage {
		return nil, m.renderErr
	}
	m.rendered = append(m.rendered, index)
	return fmt.Appendf(nil, "page-%d-%s", index, p.Kind), nil
}

func (m *mockSession) Close() error {
	m.closeCalls++
	return nil
}

type mockMerger struct {
	called bool
	input  [][]byte
	err    error
}

func (m *mockMerger) Merge(pages [][]byte) ([]byte, error) {
	m.called = true
	m.input = pages
	if m.err != nil {
		return nil, m.err
	}
	var out []byte
	for _, p := range pages {
		out = append(out, p...)
	}
	return out, nil
}

// Test options for dependency injection (not exported).

func withAssets(a assetStore) Option {
	return func(e *Exporter) {
		e.assets = a
	}
}

func withSessionFactory(f sessionFactory) Option {
	return func(e *Exporter) {
		e.newSession = f
	}
}

func withMerger(m pageMerger) Option {
	return func(e *Exporter) {
		e.merger = m
	}
}

// newTestExporter wires an Exporter around a fixed mock session.
func newTestExporter(sess *mockSession, assets *mockAssets, merger *mockMerger) *Exporter {
	return New(
		withAssets(assets),
		withMerger(merger),
		withSessionFactory(func(assetStore) (renderSession, error) {
			return sess, nil
		}),
	)
}

func TestRender_SinglePagePNG(t *testing.T) {
	sess := &mockSession{pages: 1, failAtPage: -1}
	assets := &mockAssets{}
	merger := &mockMerger{}
	exp := newTestExporter(sess, assets, merger)
	defer exp.Close()

	got, err := exp.Render(context.Background(), Request{XML: "<mxfile/>", Format: "png"})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	if string(got) != "page-0-png" {
		t.Errorf("Render() = %q, want page 0 artifact", got)
	}
	if assets.ensureCalls != 1 {
		t.Errorf("EnsureAll calls = %d, want 1", assets.ensureCalls)
	}
	if merger.called {
		t.Error("merge path must not run for a single-page png render")
	}
	if sess.closeCalls != 1 {
		t.Errorf("session Close calls = %d, want 1", sess.closeCalls)
	}
}

func TestRender_MultiPageWithoutModifierRendersFirstPage(t *testing.T) {
	sess := &mockSession{pages: 5, failAtPage: -1}
	merger := &mockMerger{}
	exp := newTestExporter(sess, &mockAssets{}, merger)
	defer exp.Close()

	got, err := exp.Render(context.Background(), Request{XML: "<mxfile/>", Format: "pdf"})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	if string(got) != "page-0-pdf" {
		t.Errorf("Render() = %q, want only the first page", got)
	}
	if len(sess.rendered) != 1 || sess.rendered[0] != 0 {
		t.Errorf("rendered pages = %v, want [0]", sess.rendered)
	}
	if merger.called {
		t.Error("plain pdf must not invoke the merger")
	}
}

func TestRender_CatPDFSinglePageSkipsMerge(t *testing.T) {
	sess := &mockSession{pages: 1, failAtPage: -1}
	merger := &mockMerger{}
	exp := newTestExporter(sess, &mockAssets{}, merger)
	defer exp.Close()

	got, err := exp.Render(context.Background(), Request{XML: "<mxfile/>", Format: "cat-pdf"})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	// Degenerate concatenation behaves exactly like a plain pdf render.
	if string(got) != "page-0-pdf" {
		t.Errorf("Render() = %q, want plain single-page result", got)
	}
	if merger.called {
		t.Error("single-page cat-pdf must not invoke the merger")
	}
}

func TestRender_CatPDFMergesAllPagesInOrder(t *testing.T) {
	sess := &mockSession{pages: 3, failAtPage: -1}
	merger := &mockMerger{}
	exp := newTestExporter(sess, &mockAssets{}, merger)
	defer exp.Close()

	got, err := exp.Render(context.Background(), Request{XML: "<mxfile/>", Format: "cat-pdf"})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}

	wantOrder := []int{0, 1, 2}
	if len(sess.rendered) != len(wantOrder) {
		t.Fatalf("render passes = %d, want %d", len(sess.rendered), len(wantOrder))
	}
	for i, idx := range wantOrder {
		if sess.rendered[i] != idx {
			t.Errorf("render pass %d = page %d, want page %d", i, sess.rendered[i], idx)
		}
	}

	if !merger.called {
		t.Fatal("merger was not called")
	}
	if len(merger.input) != 3 {
		t.Fatalf("merger received %d pages, want 3", len(merger.input))
	}
	if string(got) != "page-0-pdfpage-1-pdfpage-2-pdf" {
		t.Errorf("merged output = %q, not in page order", got)
	}
}

func TestRender_InvalidFormatDoesNoWork(t *testing.T) {
	assets := &mockAssets{}
	factoryCalled := false
	exp := New(
		withAssets(assets),
		withMerger(&mockMerger{}),
		withSessionFactory(func(assetStore) (renderSession, error) {
			factoryCalled = true
			return &mockSession{failAtPage: -1}, nil
		}),
	)
	defer exp.Close()

	_, err := exp.Render(context.Background(), Request{XML: "<mxfile/>", Format: "gif"})
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Render() error = %v, want ErrInvalidFormat", err)
	}

	if assets.ensureCalls != 0 {
		t.Error("invalid format must not trigger an asset fetch")
	}
	if factoryCalled {
		t.Error("invalid format must not open a browser session")
	}
}

func TestRender_UnsupportedFormatsDoNoWork(t *testing.T) {
	for _, format := range []string{"cat-png", "split-pdf", "split-png", "split-index-pdf", "split-id-png", "split-name-pdf"} {
		t.Run(format, func(t *testing.T) {
			assets := &mockAssets{}
			factoryCalled := false
			exp := New(
				withAssets(assets),
				withMerger(&mockMerger{}),
				withSessionFactory(func(assetStore) (renderSession, error) {
					factoryCalled = true
					return &mockSession{failAtPage: -1}, nil
				}),
			)
			defer exp.Close()

			_, err := exp.Render(context.Background(), Request{XML: "<mxfile/>", Format: format})
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Fatalf("Render(%q) error = %v, want ErrUnsupportedFormat", format, err)
			}
			if assets.ensureCalls != 0 || factoryCalled {
				t.Error("unsupported format must not perform rendering work")
			}
		})
	}
}

func TestRender_EmptyXMLFailsBeforeParsing(t *testing.T) {
	assets := &mockAssets{}
	exp := newTestExporter(&mockSession{failAtPage: -1}, assets, &mockMerger{})
	defer exp.Close()

	// An empty diagram with a broken format string still reports the
	// validation failure: nothing further runs.
	_, err := exp.Render(context.Background(), Request{Format: "not-a-format"})
	if !errors.Is(err, ErrEmptyDiagram) {
		t.Fatalf("Render() error = %v, want ErrEmptyDiagram", err)
	}
	if assets.ensureCalls != 0 {
		t.Error("validation failure must not trigger an asset fetch")
	}
}

func TestRender_CacheFetchFailureAbortsBeforeSession(t *testing.T) {
	assets := &mockAssets{ensureErr: errors.New("origin unreachable")}
	factoryCalled := false
	exp := New(
		withAssets(assets),
		withMerger(&mockMerger{}),
		withSessionFactory(func(assetStore) (renderSession, error) {
			factoryCalled = true
			return &mockSession{failAtPage: -1}, nil
		}),
	)
	defer exp.Close()

	_, err := exp.Render(context.Background(), Request{XML: "<mxfile/>", Format: "png"})
	if !errors.Is(err, ErrCacheFetch) {
		t.Fatalf("Render() error = %v, want ErrCacheFetch", err)
	}
	if factoryCalled {
		t.Error("a failed asset fetch must abort before any browser session opens")
	}
}

func TestRender_MidLoopFailureClosesSessionAndSkipsMerge(t *testing.T) {
	renderErr := errors.New("engine crashed")
	sess := &mockSession{pages: 3, renderErr: renderErr, failAtPage: 2}
	merger := &mockMerger{}
	exp := newTestExporter(sess, &mockAssets{}, merger)
	defer exp.Close()

	got, err := exp.Render(context.Background(), Request{XML: "<mxfile/>", Format: "cat-pdf"})
	if !errors.Is(err, renderErr) {
		t.Fatalf("Render() error = %v, want wrapped %v", err, renderErr)
	}

	if got != nil {
		t.Error("a failed multi-page render must not return partial output")
	}
	if merger.called {
		t.Error("merge must not run when a page render fails")
	}
	if sess.closeCalls != 1 {
		t.Errorf("session Close calls = %d, want exactly 1", sess.closeCalls)
	}

	// The error names the failing page index.
	if want := "rendering page 2"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q should contain %q", err, want)
	}
}

func TestRender_LoadFailureStillClosesSession(t *testing.T) {
	loadErr := errors.New("parse blew up")
	sess := &mockSession{loadErr: loadErr, failAtPage: -1}
	exp := newTestExporter(sess, &mockAssets{}, &mockMerger{})
	defer exp.Close()

	_, err := exp.Render(context.Background(), Request{XML: "<mxfile/>", Format: "png"})
	if !errors.Is(err, loadErr) {
		t.Fatalf("Render() error = %v, want %v", err, loadErr)
	}
	if sess.closeCalls != 1 {
		t.Errorf("session Close calls = %d, want 1", sess.closeCalls)
	}
}

func TestRender_MergeFailurePropagates(t *testing.T) {
	sess := &mockSession{pages: 2, failAtPage: -1}
	merger := &mockMerger{err: fmt.Errorf("%w: cross-linked xref", ErrMergeFailed)}
	exp := newTestExporter(sess, &mockAssets{}, merger)
	defer exp.Close()

	_, err := exp.Render(context.Background(), Request{XML: "<mxfile/>", Format: "cat-pdf"})
	if !errors.Is(err, ErrMergeFailed) {
		t.Fatalf("Render() error = %v, want ErrMergeFailed", err)
	}
	if sess.closeCalls != 1 {
		t.Errorf("session Close calls = %d, want 1", sess.closeCalls)
	}
}

func TestRender_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exp := newTestExporter(&mockSession{failAtPage: -1}, &mockAssets{}, &mockMerger{})
	defer exp.Close()

	_, err := exp.Render(ctx, Request{XML: "<mxfile/>", Format: "png"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Render() error = %v, want context.Canceled", err)
	}
}

func TestNew_DefaultCollaborators(t *testing.T) {
	exp := New()
	defer exp.Close()

	if exp.assets == nil {
		t.Error("assets is nil")
	}
	if exp.merger == nil {
		t.Error("merger is nil")
	}
	if exp.newSession == nil {
		t.Error("newSession is nil")
	}
	if exp.cfg.timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", exp.cfg.timeout, defaultTimeout)
	}
}
