package layout

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/Thucosta0/conversor-danfe/internal/dateutil"
	"github.com/Thucosta0/conversor-danfe/internal/nfe"
)

// Options are the per-render settings of a page.
type Options struct {
	// CSS is the stylesheet content inlined in the page.
	CSS string

	// Note is Markdown printed after the additional information. Optional.
	Note string

	// TimestampFormat uses dateutil tokens (e.g. "DD/MM/YYYY HH:mm").
	// Empty means dateutil.DefaultTimestampFormat.
	TimestampFormat string
}

// Renderer executes the DANFE template.
// A Renderer is safe for concurrent use once created.
type Renderer struct {
	tmpl  *template.Template
	notes *NoteConverter
}

// NewRenderer parses templateContent as the DANFE page template.
// Returns ErrTemplate if it does not parse.
func NewRenderer(templateContent string) (*Renderer, error) {
	tmpl, err := template.New("danfe").Option("missingkey=error").Parse(templateContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return &Renderer{tmpl: tmpl, notes: NewNoteConverter()}, nil
}

// Render builds the complete HTML page for inv.
func (r *Renderer) Render(ctx context.Context, inv *nfe.Invoice, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if inv == nil {
		return "", fmt.Errorf("%w: nil invoice", ErrLayout)
	}

	format := opts.TimestampFormat
	if format == "" {
		format = dateutil.DefaultTimestampFormat
	}
	timeLayout, err := dateutil.ParseDateFormat(format)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLayout, err)
	}

	p := newPage(inv, timeLayout)
	// #nosec G203 -- sanitized against </style> breakout
	p.CSS = template.CSS(sanitizeCSS(opts.CSS))
	if inv.Homologation() {
		// #nosec G203 -- built from a constant
		p.WatermarkCSS = template.CSS(watermarkCSS(HomologationWatermark))
	}

	note, err := r.notes.ToHTML(ctx, opts.Note)
	if err != nil {
		return "", err
	}
	p.Note = note

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("%w: %v", ErrLayout, err)
	}
	return buf.String(), nil
}
