package drawioexport

import (
	"errors"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr error
	}{
		{
			name:  "plain png",
			input: "png",
			want:  Format{Kind: KindPNG, Mode: PageModeSingle},
		},
		{
			name:  "plain pdf",
			input: "pdf",
			want:  Format{Kind: KindPDF, Mode: PageModeSingle},
		},
		{
			name:  "cat-pdf",
			input: "cat-pdf",
			want:  Format{Kind: KindPDF, Mode: PageModeMerge},
		},
		{
			name:    "cat-png requires pdf",
			input:   "cat-png",
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "split-pdf",
			input:   "split-pdf",
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "split-png",
			input:   "split-png",
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "split-index-pdf",
			input:   "split-index-pdf",
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "split-id-pdf",
			input:   "split-id-pdf",
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "split-name-png",
			input:   "split-name-png",
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "unknown modifier",
			input:   "zip-pdf",
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "unknown core",
			input:   "svg",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "core embedded but not suffix",
			input:   "png-cat",
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "bare modifier",
			input:   "cat-",
			wantErr: ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseFormat(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat_ErrorNamesOffender(t *testing.T) {
	_, err := ParseFormat("svg")
	if err == nil || !strings.Contains(err.Error(), "svg") {
		t.Errorf("invalid-format error should name the offending string, got %v", err)
	}

	_, err = ParseFormat("split-index-png")
	if err == nil || !strings.Contains(err.Error(), "split-index-") {
		t.Errorf("unsupported-format error should name the rejected prefix, got %v", err)
	}
}

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{Format{Kind: KindPNG, Mode: PageModeSingle}, "png"},
		{Format{Kind: KindPDF, Mode: PageModeSingle}, "pdf"},
		{Format{Kind: KindPDF, Mode: PageModeMerge}, "cat-pdf"},
	}

	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestKind_ContentType(t *testing.T) {
	if got := KindPNG.ContentType(); got != "image/png" {
		t.Errorf("KindPNG.ContentType() = %q", got)
	}
	if got := KindPDF.ContentType(); got != "application/pdf" {
		t.Errorf("KindPDF.ContentType() = %q", got)
	}
}
