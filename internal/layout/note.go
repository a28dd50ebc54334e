package layout

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// NoteConverter turns the Markdown note from config into an HTML fragment.
type NoteConverter struct {
	md goldmark.Markdown
}

// NewNoteConverter creates a NoteConverter with GFM and syntax highlighting.
// Code blocks are colored with inline styles since the page carries no
// chroma stylesheet.
func NewNoteConverter() *NoteConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false),
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			// Raw HTML in the note is dropped: WithUnsafe is not set.
		),
	)
	return &NoteConverter{md: md}
}

// ToHTML converts note to an HTML fragment. A blank note yields "".
// Goldmark has no context support, so conversion runs in a goroutine and
// the caller stops waiting when ctx is done.
func (c *NoteConverter) ToHTML(ctx context.Context, note string) (template.HTML, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(note) == "" {
		return "", nil
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(note), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrNoteConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		// #nosec G203 -- goldmark output without WithUnsafe escapes raw HTML
		return template.HTML(r.html), r.err
	}
}
