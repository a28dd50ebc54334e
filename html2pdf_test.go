package danfe

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

// mockRenderer implements pdfRenderer for testing.
type mockRenderer struct {
	result     []byte
	err        error
	calledWith string
	content    string
	closed     bool
}

func (m *mockRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	m.calledWith = filePath
	// The temp file is removed after ToPDF returns, so read it now.
	data, _ := os.ReadFile(filePath)
	m.content = string(data)
	return m.result, m.err
}

func (m *mockRenderer) Close() error {
	m.closed = true
	return nil
}

func TestRodConverter_ToPDF(t *testing.T) {
	t.Parallel()

	t.Run("renders through a temp file", func(t *testing.T) {
		t.Parallel()

		mock := &mockRenderer{result: []byte("%PDF-1.4")}
		conv := &rodConverter{renderer: mock}

		got, err := conv.ToPDF(context.Background(), "<html>DANFE</html>", &pdfOptions{Margin: DefaultMargin})
		if err != nil {
			t.Fatalf("ToPDF() unexpected error: %v", err)
		}
		if string(got) != "%PDF-1.4" {
			t.Errorf("ToPDF() = %q", got)
		}
		if !strings.HasSuffix(mock.calledWith, ".html") {
			t.Errorf("renderer called with %q, want an .html file", mock.calledWith)
		}
		if mock.content != "<html>DANFE</html>" {
			t.Errorf("temp file content = %q", mock.content)
		}
		if _, err := os.Stat(mock.calledWith); !os.IsNotExist(err) {
			t.Errorf("temp file %s not removed", mock.calledWith)
		}
	})

	t.Run("renderer error propagates", func(t *testing.T) {
		t.Parallel()

		conv := &rodConverter{renderer: &mockRenderer{err: ErrPageLoad}}
		if _, err := conv.ToPDF(context.Background(), "<html></html>", nil); !errors.Is(err, ErrRender) {
			t.Errorf("ToPDF() error = %v, want ErrRender", err)
		}
	})

	t.Run("close reaches the renderer", func(t *testing.T) {
		t.Parallel()

		mock := &mockRenderer{}
		conv := &rodConverter{renderer: mock}
		if err := conv.Close(); err != nil {
			t.Fatalf("Close() unexpected error: %v", err)
		}
		if !mock.closed {
			t.Error("Close() did not close the renderer")
		}
	})
}

func TestBrowserErrorsAreRenderErrors(t *testing.T) {
	t.Parallel()

	for _, err := range []error{ErrBrowserConnect, ErrPageCreate, ErrPageLoad, ErrPDFGeneration, ErrEmptyPDF} {
		if !errors.Is(err, ErrRender) {
			t.Errorf("%v does not match ErrRender", err)
		}
	}
}

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       *pdfOptions
		wantMargin float64
		wantBottom float64
	}{
		{"nil uses default", nil, DefaultMargin, minFooterMargin},
		{"wide margin", &pdfOptions{Margin: 1}, 1, 1},
		{"zero margin keeps footer room", &pdfOptions{Margin: 0}, 0, minFooterMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := buildPDFOptions(tt.opts)
			if *got.PaperWidth != paperWidthInches || *got.PaperHeight != paperHeightInches {
				t.Errorf("paper = %vx%v, want A4", *got.PaperWidth, *got.PaperHeight)
			}
			if *got.MarginTop != tt.wantMargin || *got.MarginLeft != tt.wantMargin || *got.MarginRight != tt.wantMargin {
				t.Errorf("margins = %v/%v/%v, want %v", *got.MarginTop, *got.MarginLeft, *got.MarginRight, tt.wantMargin)
			}
			if *got.MarginBottom != tt.wantBottom {
				t.Errorf("MarginBottom = %v, want %v", *got.MarginBottom, tt.wantBottom)
			}
			if !got.DisplayHeaderFooter || !strings.Contains(got.FooterTemplate, "totalPages") {
				t.Error("footer with page numbers not enabled")
			}
		})
	}
}

func TestRodRenderer_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	r := newRodRenderer(DefaultTimeout, nil)
	if err := r.Close(); err != nil {
		t.Errorf("Close() on unused renderer = %v, want nil", err)
	}
}
