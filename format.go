package drawioexport

import (
	"fmt"
	"strings"
)

// Kind is the artifact type a render produces.
type Kind string

// Supported output kinds.
const (
	KindPNG Kind = "png"
	KindPDF Kind = "pdf"
)

// ContentType returns the MIME type for artifacts of this kind.
func (k Kind) ContentType() string {
	if k == KindPDF {
		return "application/pdf"
	}
	return "image/png"
}

// PageMode selects how a multi-page diagram is handled.
type PageMode int

const (
	// PageModeSingle renders only the first page.
	PageModeSingle PageMode = iota

	// PageModeMerge renders every page and concatenates them in page order.
	PageModeMerge
)

// Format is a parsed output-format directive.
type Format struct {
	Kind Kind
	Mode PageMode
}

// Modifier prefixes recognized by the format grammar. The split family is
// grammatical but implies one output file per page, which cannot map onto a
// single returned buffer, so every split request is rejected up front.
const (
	modifierCat       = "cat-"
	modifierSplit     = "split-"
	modifierSplitIdx  = "split-index-"
	modifierSplitID   = "split-id-"
	modifierSplitName = "split-name-"
)

// ParseFormat parses a format string of the shape "modifier?core" where core
// is "png" or "pdf". Strings outside the grammar fail with ErrInvalidFormat;
// grammatical strings this pipeline cannot serve fail with
// ErrUnsupportedFormat. Both reject before any cache or browser work starts.
func ParseFormat(s string) (Format, error) {
	core, prefix, ok := splitDirective(s)
	if !ok {
		return Format{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}

	switch prefix {
	case "":
		return Format{Kind: core, Mode: PageModeSingle}, nil
	case modifierCat:
		if core != KindPDF {
			return Format{}, fmt.Errorf("%w: %q (concatenation requires pdf)", ErrUnsupportedFormat, s)
		}
		return Format{Kind: KindPDF, Mode: PageModeMerge}, nil
	case modifierSplit, modifierSplitIdx, modifierSplitID, modifierSplitName:
		return Format{}, fmt.Errorf("%w: %q (split outputs are not supported)", ErrUnsupportedFormat, prefix)
	default:
		return Format{}, fmt.Errorf("%w: unknown modifier %q", ErrUnsupportedFormat, prefix)
	}
}

// splitDirective splits s into its core kind and the literal prefix before
// it. ok is false when s does not end in a known core kind at all.
func splitDirective(s string) (core Kind, prefix string, ok bool) {
	switch {
	case s == string(KindPNG), s == string(KindPDF):
		return Kind(s), "", true
	case strings.HasSuffix(s, "-"+string(KindPNG)):
		return KindPNG, strings.TrimSuffix(s, string(KindPNG)), true
	case strings.HasSuffix(s, "-"+string(KindPDF)):
		return KindPDF, strings.TrimSuffix(s, string(KindPDF)), true
	}
	return "", "", false
}

// String reconstructs the canonical format string for the directive.
func (f Format) String() string {
	if f.Mode == PageModeMerge {
		return modifierCat + string(f.Kind)
	}
	return string(f.Kind)
}
