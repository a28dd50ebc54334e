// Package nfe parses and validates Brazilian electronic invoice (NFe) XML.
//
// Parse is the single entry point: it checks well-formedness, the presence
// of the infNFe element and the model code, and returns a Document backed
// by an etree DOM. Element lookups go through Finder so that documents with
// a default namespace, a prefixed namespace or no namespace at all are
// queried the same way.
package nfe

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// MaxInputSize limits XML input to prevent memory exhaustion (10MB).
// A large NFe with hundreds of items stays well under 1MB.
var MaxInputSize = 10 << 20

// Document is a parsed, validated NFe.
type Document struct {
	tree  *etree.Document
	model string
}

// Parse validates raw NFe bytes and returns the parsed document.
// Returns ErrParse for empty or malformed input and ErrSchema when the
// document is not a model 55 NFe. Parse has no side effects.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrParse)
	}
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrParse, len(data), MaxInputSize)
	}

	if err := checkWellFormed(data); err != nil {
		return nil, err
	}

	tree := newTree()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if tree.Root() == nil {
		return nil, fmt.Errorf("%w: no root element", ErrParse)
	}

	doc := &Document{tree: tree}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// newTree creates an etree document that understands non-UTF-8 prologs.
func newTree() *etree.Document {
	tree := etree.NewDocument()
	tree.ReadSettings.CharsetReader = charset.NewReaderLabel
	tree.ReadSettings.PreserveCData = true
	return tree
}

// checkWellFormed runs a strict token pass over data and reports every
// diagnostic in one ErrParse. etree reads raw tokens, so mismatched end
// tags are caught here rather than there. The decoder accepts several
// top-level elements and stray text around them; depth tracking rejects both.
func checkWellFormed(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var diagnostics []string
	sawRoot := false
	depth := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			diagnostics = append(diagnostics, err.Error())
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && sawRoot {
				line, _ := dec.InputPos()
				diagnostics = append(diagnostics,
					fmt.Sprintf("line %d: extra element <%s> after the root element", line, t.Name.Local))
			}
			sawRoot = true
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				line, _ := dec.InputPos()
				diagnostics = append(diagnostics,
					fmt.Sprintf("line %d: text content outside the root element", line))
			}
		}
	}
	if !sawRoot {
		diagnostics = append(diagnostics, "document has no root element")
	}

	if len(diagnostics) > 0 {
		return fmt.Errorf("%w: %s", ErrParse, strings.Join(diagnostics, "; "))
	}
	return nil
}

// validate checks the structural requirements of a DANFE-capable NFe.
func (d *Document) validate() error {
	if First(d.tree, PathInfNFe) == nil {
		return fmt.Errorf("%w: %s", ErrSchema, reasonMissingRoot)
	}

	model := First(d.tree, PathIdeModel)
	if model == nil {
		model = First(d.tree, PathAnyModel)
	}
	if model == nil {
		return fmt.Errorf("%w: %s", ErrSchema, reasonMissingModel)
	}

	code := strings.TrimSpace(model.Text())
	if code != ExpectedModel {
		return fmt.Errorf("%w: %s", ErrUnexpectedModel, code)
	}
	d.model = code
	return nil
}

// Model returns the validated model code.
func (d *Document) Model() string {
	return d.model
}

// Tree exposes the underlying DOM for transforms that mutate it.
func (d *Document) Tree() *etree.Document {
	return d.tree
}

// Products returns every det/prod element in document order.
func (d *Document) Products() []*etree.Element {
	return All(d.tree, PathProducts)
}

// Copy returns a deep copy that can be mutated without touching d.
func (d *Document) Copy() *Document {
	return &Document{tree: d.tree.Copy(), model: d.model}
}

// Serialize writes the document back to XML text.
// A prolog declaring a non-UTF-8 encoding is rewritten to UTF-8, because
// etree always writes UTF-8 and the output must parse back the same way.
func (d *Document) Serialize() (string, error) {
	for _, tok := range d.tree.Child {
		pi, ok := tok.(*etree.ProcInst)
		if !ok || pi.Target != "xml" {
			continue
		}
		if declaresForeignEncoding(pi.Inst) {
			pi.Inst = `version="1.0" encoding="UTF-8"`
		}
		break
	}

	out, err := d.tree.WriteToString()
	if err != nil {
		return "", fmt.Errorf("serializing document: %w", err)
	}
	return out, nil
}

// declaresForeignEncoding reports whether an XML declaration names an
// encoding other than UTF-8.
func declaresForeignEncoding(inst string) bool {
	lower := strings.ToLower(inst)
	idx := strings.Index(lower, "encoding")
	if idx < 0 {
		return false
	}
	rest := lower[idx+len("encoding"):]
	return !strings.Contains(rest, "utf-8") && !strings.Contains(rest, "utf8")
}
