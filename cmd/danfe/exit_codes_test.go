package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	danfe "github.com/Thucosta0/conversor-danfe"
	"github.com/Thucosta0/conversor-danfe/internal/config"
	"github.com/Thucosta0/conversor-danfe/internal/nfe"
	"github.com/Thucosta0/conversor-danfe/internal/watch"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},

		// Document errors (exit 5)
		{"parse", nfe.ErrParse, ExitInvalidXML},
		{"schema", nfe.ErrSchema, ExitInvalidXML},
		{"unexpected model", fmt.Errorf("%w: 65", nfe.ErrUnexpectedModel), ExitInvalidXML},
		{"empty input", danfe.ErrEmptyInput, ExitInvalidXML},

		// Usage/config errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"no input", ErrNoInput, ExitUsage},
		{"too many args", ErrTooManyArgs, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"config invalid value", config.ErrInvalidValue, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid margin", danfe.ErrInvalidMargin, ExitUsage},
		{"invalid asset", danfe.ErrInvalidAsset, ExitUsage},

		// Render errors (exit 4)
		{"render", danfe.ErrRender, ExitRender},
		{"empty pdf", danfe.ErrEmptyPDF, ExitRender},
		{"browser connect", danfe.ErrBrowserConnect, ExitRender},
		{"page load", fmt.Errorf("converting to PDF: %w", danfe.ErrPageLoad), ExitRender},
		{"pdf generation", danfe.ErrPDFGeneration, ExitRender},
		{"deadline", context.DeadlineExceeded, ExitRender},

		// I/O errors (exit 3)
		{"output", danfe.ErrIO, ExitIO},
		{"read xml", ErrReadXML, ExitIO},
		{"watch", watch.ErrWatch, ExitIO},
		{"file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},

		// Everything else
		{"canceled", context.Canceled, ExitGeneral},
		{"unknown", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_UnixConventions(t *testing.T) {
	t.Parallel()

	codes := []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitRender, ExitInvalidXML}
	seen := make(map[int]bool)
	for _, c := range codes {
		if c >= 126 {
			t.Errorf("exit code %d collides with shell-reserved range", c)
		}
		if seen[c] {
			t.Errorf("exit code %d defined twice", c)
		}
		seen[c] = true
	}
}
