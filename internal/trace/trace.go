// Package trace appends lot and expiry data (rastro) to product descriptions.
//
// Pharmaceutical and other traceable goods carry one or more rastro blocks
// under det/prod. DANFE layouts do not print them, so the Enricher copies
// them into xProd as a delimited note:
//
//	DIPIRONA 500MG CX 10
//	---------------------------------------------
//	DADOS DE RASTRO:
//	LOTE: AB12 | QTD LOTE: 1.500,500 | FAB: 15/01/2024 | VAL: 30/06/2025
//	---------------------------------------------
package trace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/Thucosta0/conversor-danfe/internal/dateutil"
	"github.com/Thucosta0/conversor-danfe/internal/nfe"
	"github.com/Thucosta0/conversor-danfe/internal/numfmt"
)

// ErrEnrichment indicates the document could not be enriched.
// Callers are expected to fall back to the original XML.
var ErrEnrichment = errors.New("trace enrichment failed")

// DefaultHeader is the line printed above the trace lines.
const DefaultHeader = "DADOS DE RASTRO:"

// Note layout.
const (
	ruleWidth      = 45
	fieldSeparator = " | "
	lotQtyPlaces   = 3
)

var rule = strings.Repeat("-", ruleWidth)

// Stats reports what an enrichment pass did.
type Stats struct {
	Products int // det/prod entries visited
	Enriched int // entries whose xProd was extended
	Blocks   int // rastro blocks that produced a line
}

// Result is the enriched document serialized to XML.
type Result struct {
	XML   string
	Stats Stats
}

// Enricher appends trace notes to product descriptions.
// The zero value is not usable; create one with New.
type Enricher struct {
	header string
	logger *zap.Logger
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithHeader sets the header line of the note. An empty header keeps the default.
func WithHeader(header string) Option {
	return func(e *Enricher) {
		if h := strings.TrimSpace(header); h != "" {
			e.header = h
		}
	}
}

// WithLogger sets the logger used for skipped fields and fallbacks.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Enricher with the default header and a no-op logger.
func New(opts ...Option) *Enricher {
	e := &Enricher{
		header: DefaultHeader,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns doc serialized with trace notes appended to every product
// that has extractable rastro data. doc itself is never modified: the pass
// runs on a copy, so a failure halfway leaves nothing half-mutated.
// All failures, panics included, are reported as ErrEnrichment.
func (e *Enricher) Enrich(doc *nfe.Document) (res *Result, err error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrEnrichment)
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %v", ErrEnrichment, r)
		}
	}()

	work := doc.Copy()
	var stats Stats

	for _, prod := range work.Products() {
		stats.Products++

		lines := e.traceLines(prod)
		if len(lines) == 0 {
			continue
		}

		desc := nfe.First(prod, nfe.PathDesc)
		if desc == nil {
			e.logger.Debug("product has trace data but no xProd",
				zap.Int("product", stats.Products))
			continue
		}

		desc.SetText(strings.TrimSpace(desc.Text()) + "\n" + e.note(lines))
		stats.Enriched++
		stats.Blocks += len(lines)
	}

	out, err := work.Serialize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnrichment, err)
	}

	e.logger.Debug("trace enrichment done",
		zap.Int("products", stats.Products),
		zap.Int("enriched", stats.Enriched),
		zap.Int("blocks", stats.Blocks))

	return &Result{XML: out, Stats: stats}, nil
}

// EnrichOrOriginal runs Enrich and returns the enriched document together
// with its Result. Enrichment is cosmetic, so any failure, including
// enriched XML that no longer validates, is logged and doc is returned with
// a nil Result.
func (e *Enricher) EnrichOrOriginal(doc *nfe.Document) (*nfe.Document, *Result) {
	res, err := e.Enrich(doc)
	if err != nil {
		e.logger.Warn("trace enrichment skipped, using original XML", zap.Error(err))
		return doc, nil
	}

	view, err := nfe.Parse([]byte(res.XML))
	if err != nil {
		e.logger.Warn("enriched XML rejected, using original", zap.Error(err))
		return doc, nil
	}
	return view, res
}

// traceLines returns one formatted line per rastro block under prod.
// Blocks with no recognized field produce no line.
func (e *Enricher) traceLines(prod *etree.Element) []string {
	var lines []string
	for _, block := range nfe.All(prod, nfe.PathTraces) {
		if line := e.formatBlock(block); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// formatBlock builds "LOTE: x | QTD LOTE: y | FAB: d | VAL: d" from the
// fields present in block, in that fixed order.
func (e *Enricher) formatBlock(block *etree.Element) string {
	fields := make([]string, 0, 4)

	if lot, ok := nfe.Text(block, nfe.PathLot); ok {
		fields = append(fields, "LOTE: "+strings.TrimSpace(lot))
	}

	if qty, ok := nfe.Text(block, nfe.PathLotQty); ok {
		formatted, err := numfmt.Decimal(qty, lotQtyPlaces)
		if err != nil {
			e.logger.Warn("ignoring lot quantity", zap.String("qLote", qty), zap.Error(err))
		} else {
			fields = append(fields, "QTD LOTE: "+formatted)
		}
	}

	if mfg, ok := nfe.Text(block, nfe.PathMfgDate); ok {
		fields = append(fields, "FAB: "+dateutil.ReformatISO(mfg))
	}

	if exp, ok := nfe.Text(block, nfe.PathExpiryDate); ok {
		fields = append(fields, "VAL: "+dateutil.ReformatISO(exp))
	}

	return strings.Join(fields, fieldSeparator)
}

// note frames lines between two rules under the header.
func (e *Enricher) note(lines []string) string {
	var b strings.Builder
	b.WriteString(rule)
	b.WriteByte('\n')
	b.WriteString(e.header)
	b.WriteByte('\n')
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteByte('\n')
	b.WriteString(rule)
	return b.String()
}
