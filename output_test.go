package danfe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDestinationPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		source     string
		customName string
		suffix     string
		want       string
	}{
		{"default suffix", "notas/123.xml", "", DefaultSuffix, filepath.Join("notas", "123_DANFE.pdf")},
		{"no suffix", "notas/123.xml", "", "", filepath.Join("notas", "123.pdf")},
		{"custom name strips .pdf", "notas/123.xml", "Pedido 55.pdf", DefaultSuffix, filepath.Join("notas", "Pedido 55.pdf")},
		{"custom name without extension", "notas/123.xml", "Pedido 55", DefaultSuffix, filepath.Join("notas", "Pedido 55.pdf")},
		{"custom extension case-insensitive", "notas/123.xml", "pedido.PDF", "", filepath.Join("notas", "pedido.pdf")},
		{"custom name loses directories", "notas/123.xml", "../../etc/evil.pdf", "", filepath.Join("notas", "evil.pdf")},
		{"custom name with backslashes", "notas/123.xml", `C:\tmp\x.pdf`, "", filepath.Join("notas", "x.pdf")},
		{"blank custom name falls back", "notas/123.xml", "   ", DefaultSuffix, filepath.Join("notas", "123_DANFE.pdf")},
		{"dot-dot custom name falls back", "notas/123.xml", "..", "", filepath.Join("notas", "123.pdf")},
		{"source in current directory", "123.xml", "", DefaultSuffix, "123_DANFE.pdf"},
		{"source without extension", "notas/123", "", DefaultSuffix, filepath.Join("notas", "123_DANFE.pdf")},
		{"only last extension trimmed", "notas/nfe.v4.xml", "", "", filepath.Join("notas", "nfe.v4.pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DestinationPath(tt.source, tt.customName, tt.suffix); got != tt.want {
				t.Errorf("DestinationPath(%q, %q, %q) = %q, want %q", tt.source, tt.customName, tt.suffix, got, tt.want)
			}
		})
	}
}

func TestWritePDF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "123_DANFE.pdf")
	if err := WritePDF(path, []byte("%PDF-1.4")); err != nil {
		t.Fatalf("WritePDF() unexpected error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil || string(got) != "%PDF-1.4" {
		t.Errorf("written file = %q, %v", got, err)
	}
}

func TestWritePDF_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty data is a render error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.pdf")
		err := WritePDF(path, nil)
		if !errors.Is(err, ErrRender) {
			t.Errorf("WritePDF(nil) error = %v, want ErrRender", err)
		}
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			t.Error("empty write left a file behind")
		}
	})

	t.Run("unwritable destination is an IO error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing-dir", "out.pdf")
		if err := WritePDF(path, []byte("%PDF")); !errors.Is(err, ErrIO) {
			t.Errorf("WritePDF() error = %v, want ErrIO", err)
		}
	})

	t.Run("existing file survives a failed write", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.pdf")
		if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}
		_ = WritePDF(path, nil)

		got, err := os.ReadFile(path)
		if err != nil || string(got) != "old" {
			t.Errorf("existing file = %q, %v; want untouched", got, err)
		}
	})
}
