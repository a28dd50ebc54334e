package danfe

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Thucosta0/conversor-danfe/internal/trace"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.0
	MaxMargin     = 1.5
	DefaultMargin = 0.25
)

// DefaultTimeout bounds one browser render.
const DefaultTimeout = 30 * time.Second

// Input contains conversion parameters.
type Input struct {
	XML      []byte // NFe document (required)
	Note     string // Markdown printed at the bottom of the DANFE (optional)
	HTMLOnly bool   // Skip PDF generation (debugging aid)
}

// Result holds every stage's output of a conversion.
type Result struct {
	XML       string      // document fed to the layout, enriched when possible
	HTML      []byte      // DANFE page
	PDF       []byte      // nil when Input.HTMLOnly is set
	AccessKey string      // 44-digit key, empty when the document has none
	Enriched  bool        // false when enrichment was disabled or fell back
	Trace     trace.Stats // zero when Enriched is false
}

// converterConfig holds the settings options act on.
type converterConfig struct {
	timeout         time.Duration
	margin          float64
	enrich          bool
	traceHeader     string
	assetPath       string
	style           string // asset name, file path or empty for the default
	timestampFormat string
	logger          *zap.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithTimeout bounds each browser render. Panics if d is not positive.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("danfe: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithMargin sets the page margin in inches, applied to all sides.
// Out-of-range values make NewConverter fail with ErrInvalidMargin.
func WithMargin(inches float64) Option {
	return func(c *Converter) {
		c.cfg.margin = inches
	}
}

// WithEnrichment turns trace enrichment on or off. It is on by default.
func WithEnrichment(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.enrich = enabled
	}
}

// WithTraceHeader replaces the header line of the enrichment note.
func WithTraceHeader(header string) Option {
	return func(c *Converter) {
		c.cfg.traceHeader = header
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// embedded ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithStyle selects the stylesheet: an asset name ("danfe") or a path to a
// CSS file.
func WithStyle(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.style = strings.TrimSpace(nameOrPath)
	}
}

// WithTimestampFormat sets how issue and protocol timestamps print, using
// dateutil tokens such as "DD/MM/YYYY HH:mm".
func WithTimestampFormat(format string) Option {
	return func(c *Converter) {
		c.cfg.timestampFormat = format
	}
}

// WithLogger sets the logger for the converter and the enricher.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.cfg.logger = logger
		}
	}
}

// validate checks settings that options cannot reject on their own.
func (cfg *converterConfig) validate() error {
	if cfg.margin < MinMargin || cfg.margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, cfg.margin, MinMargin, MaxMargin)
	}
	if cfg.timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, cfg.timeout)
	}
	return nil
}
