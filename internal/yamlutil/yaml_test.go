package yamlutil

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Format string `yaml:"format"`
	Scale  float64 `yaml:"scale"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Run("parses valid input", func(t *testing.T) {
		var s sample
		if err := UnmarshalStrict([]byte("format: pdf\nscale: 1.5\n"), &s); err != nil {
			t.Fatalf("UnmarshalStrict() error = %v", err)
		}
		if s.Format != "pdf" || s.Scale != 1.5 {
			t.Errorf("UnmarshalStrict() = %+v, want {pdf 1.5}", s)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		var s sample
		err := UnmarshalStrict([]byte("format: pdf\nfromat: png\n"), &s)
		if err == nil {
			t.Fatalf("UnmarshalStrict() accepted unknown field")
		}
	})

	t.Run("rejects empty data", func(t *testing.T) {
		var s sample
		if err := UnmarshalStrict(nil, &s); !errors.Is(err, ErrNilData) {
			t.Errorf("UnmarshalStrict(nil) error = %v, want ErrNilData", err)
		}
	})

	t.Run("rejects nil destination", func(t *testing.T) {
		if err := UnmarshalStrict([]byte("format: pdf\n"), nil); !errors.Is(err, ErrNilDestination) {
			t.Errorf("UnmarshalStrict(_, nil) error = %v, want ErrNilDestination", err)
		}
	})

	t.Run("rejects oversized input", func(t *testing.T) {
		old := MaxInputSize
		MaxInputSize = 16
		defer func() { MaxInputSize = old }()

		var s sample
		data := []byte("format: " + strings.Repeat("a", 32))
		if err := UnmarshalStrict(data, &s); !errors.Is(err, ErrInputTooLarge) {
			t.Errorf("UnmarshalStrict() error = %v, want ErrInputTooLarge", err)
		}
	})
}
