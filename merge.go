package drawioexport

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pageMerger combines independently rendered page documents, in page order,
// into one contiguous output document.
type pageMerger interface {
	Merge(pages [][]byte) ([]byte, error)
}

// Compile-time interface check.
var _ pageMerger = pdfMerger{}

// pdfMerger concatenates single-page PDFs using pdfcpu. It only ever runs
// after every page has rendered successfully; a failed page means no merge.
type pdfMerger struct{}

// Merge joins the given page documents in slice order. A single page passes
// through untouched; the degenerate empty case is a programmer error surfaced
// as a merge failure rather than a panic.
func (pdfMerger) Merge(pages [][]byte) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages to merge", ErrMergeFailed)
	}
	if len(pages) == 1 {
		return pages[0], nil
	}

	readers := make([]io.ReadSeeker, len(pages))
	for i, p := range pages {
		readers[i] = bytes.NewReader(p)
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMergeFailed, err)
	}
	return out.Bytes(), nil
}
