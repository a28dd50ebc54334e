package danfe

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Thucosta0/conversor-danfe/internal/assets"
	"github.com/Thucosta0/conversor-danfe/internal/fileutil"
	"github.com/Thucosta0/conversor-danfe/internal/layout"
	"github.com/Thucosta0/conversor-danfe/internal/nfe"
	"github.com/Thucosta0/conversor-danfe/internal/trace"
)

// Compile-time interface implementation checks.
var (
	_ pdfConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)

// Converter runs the NFe-to-DANFE pipeline.
// Create with NewConverter, use Convert for conversion, and Close when done.
// A Converter keeps one browser alive across conversions; it is not safe
// for concurrent Convert calls.
type Converter struct {
	cfg          converterConfig
	assetLoader  assets.AssetLoader
	css          string
	renderer     *layout.Renderer
	enricher     *trace.Enricher
	pdfConverter pdfConverter
}

// NewConverter creates a Converter with default configuration.
// Returns an error if options are out of range or assets cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout: DefaultTimeout,
			margin:  DefaultMargin,
			enrich:  true,
			logger:  zap.NewNop(),
		},
		assetLoader: assets.NewEmbeddedLoader(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.cfg.validate(); err != nil {
		return nil, err
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
		}
		c.assetLoader = resolver
	}

	css, err := c.resolveStyle()
	if err != nil {
		return nil, err
	}
	c.css = css

	tmpl, err := c.assetLoader.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		return nil, fmt.Errorf("%w: loading template: %v", ErrInvalidAsset, err)
	}
	c.renderer, err = layout.NewRenderer(tmpl)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAsset, err)
	}

	c.enricher = trace.New(
		trace.WithHeader(c.cfg.traceHeader),
		trace.WithLogger(c.cfg.logger.Named("trace")),
	)

	// Tests inject a stub before this point.
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout, c.cfg.logger.Named("browser"))
	}

	return c, nil
}

// Convert validates input.XML, enriches it, lays out the DANFE and prints
// it to PDF. Validation errors match nfe.ErrParse or nfe.ErrSchema;
// layout and browser errors match ErrRender.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrRender, r)
		}
	}()

	if len(input.XML) == 0 {
		return nil, ErrEmptyInput
	}

	doc, err := nfe.Parse(input.XML)
	if err != nil {
		return nil, err
	}

	res := &Result{XML: string(input.XML)}
	if key, ok := doc.AccessKey(); ok {
		res.AccessKey = key
		c.cfg.logger.Debug("access key found", zap.String("key", key))
	} else {
		c.cfg.logger.Warn("document has no valid access key")
	}

	view := doc
	if c.cfg.enrich {
		view = c.enrich(doc, res)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := c.renderer.Render(ctx, view.Invoice(), layout.Options{
		CSS:             c.css,
		Note:            input.Note,
		TimestampFormat: c.cfg.timestampFormat,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	res.HTML = []byte(page)

	if input.HTMLOnly {
		return res, nil
	}

	pdf, err := c.pdfConverter.ToPDF(ctx, page, &pdfOptions{Margin: c.cfg.margin})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	if len(pdf) == 0 {
		return nil, ErrEmptyPDF
	}

	res.PDF = pdf
	return res, nil
}

// enrich applies trace enrichment and returns the document the layout
// should read; on fallback res is left untouched.
func (c *Converter) enrich(doc *nfe.Document, res *Result) *nfe.Document {
	view, enriched := c.enricher.EnrichOrOriginal(doc)
	if enriched == nil {
		return doc
	}

	res.XML = enriched.XML
	res.Enriched = true
	res.Trace = enriched.Stats
	return view
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// resolveStyle turns the configured style (name or file path) into CSS.
func (c *Converter) resolveStyle() (string, error) {
	style := c.cfg.style
	if style == "" {
		style = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(style) {
		content, err := os.ReadFile(style) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: loading style file %q: %v", ErrInvalidAsset, style, err)
		}
		return string(content), nil
	}

	css, err := c.assetLoader.LoadStyle(style)
	if err != nil {
		return "", fmt.Errorf("%w: loading style %q: %w", ErrInvalidAsset, style, err)
	}
	return css, nil
}
