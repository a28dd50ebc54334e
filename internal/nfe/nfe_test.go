package nfe

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// minimalNFe builds a document around the given ide/mod content.
func minimalNFe(model string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<NFe xmlns="http://www.portalfiscal.inf.br/nfe">
  <infNFe Id="NFe35240112345678000195550010000012341000012345" versao="4.00">
    <ide><mod>` + model + `</mod><nNF>1</nNF></ide>
    <det nItem="1"><prod><cProd>1</cProd><xProd>ITEM</xProd></prod></det>
  </infNFe>
</NFe>`
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return data
}

// ---------------------------------------------------------------------------
// TestParse - Well-formedness and schema checks
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantErr  error
		wantText string
	}{
		{
			name:     "empty input",
			input:    "",
			wantErr:  ErrParse,
			wantText: "empty document",
		},
		{
			name:     "whitespace only",
			input:    "  \n\t ",
			wantErr:  ErrParse,
			wantText: "empty document",
		},
		{
			name:    "mismatched end tag",
			input:   "<NFe><infNFe></NFe>",
			wantErr: ErrParse,
		},
		{
			name:    "unclosed element",
			input:   "<NFe><infNFe>",
			wantErr: ErrParse,
		},
		{
			name:     "prolog without root",
			input:    `<?xml version="1.0"?>`,
			wantErr:  ErrParse,
			wantText: "no root element",
		},
		{
			name:     "second top-level element",
			input:    minimalNFe("55") + "<extra/>",
			wantErr:  ErrParse,
			wantText: "extra element <extra>",
		},
		{
			name:     "text after the root element",
			input:    minimalNFe("55") + "garbage",
			wantErr:  ErrParse,
			wantText: "outside the root element",
		},
		{
			name:     "text before the root element",
			input:    "junk" + minimalNFe("55"),
			wantErr:  ErrParse,
			wantText: "outside the root element",
		},
		{
			name:  "trailing whitespace and comment",
			input: minimalNFe("55") + "\n<!-- assinado -->\n",
		},
		{
			name:     "missing infNFe",
			input:    `<NFe><ide><mod>55</mod></ide></NFe>`,
			wantErr:  ErrSchema,
			wantText: "missing root element",
		},
		{
			name:     "missing model code",
			input:    `<NFe><infNFe><ide><nNF>1</nNF></ide></infNFe></NFe>`,
			wantErr:  ErrSchema,
			wantText: "missing model code",
		},
		{
			name:     "NFC-e model rejected",
			input:    minimalNFe("65"),
			wantErr:  ErrUnexpectedModel,
			wantText: "unexpected model code: 65",
		},
		{
			name:     "empty model rejected",
			input:    minimalNFe(""),
			wantErr:  ErrSchema,
			wantText: "unexpected model code: ",
		},
		{
			name:  "valid model 55",
			input: minimalNFe("55"),
		},
		{
			name:  "model surrounded by whitespace",
			input: minimalNFe(" 55\n"),
		},
		{
			name: "prefixed namespace",
			input: `<nfe:NFe xmlns:nfe="http://www.portalfiscal.inf.br/nfe">
  <nfe:infNFe><nfe:ide><nfe:mod>55</nfe:mod></nfe:ide></nfe:infNFe>
</nfe:NFe>`,
		},
		{
			name:  "no namespace",
			input: `<NFe><infNFe><ide><mod>55</mod></ide></infNFe></NFe>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := Parse([]byte(tt.input))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				if tt.wantText != "" && !strings.Contains(err.Error(), tt.wantText) {
					t.Errorf("error %q should contain %q", err.Error(), tt.wantText)
				}
				if doc != nil {
					t.Error("expected nil document on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if doc.Model() != ExpectedModel {
				t.Errorf("Model() = %q, want %q", doc.Model(), ExpectedModel)
			}
		})
	}
}

func TestParse_ModelFromIdeWins(t *testing.T) {
	t.Parallel()

	// A referenced document (NFref/refNF/mod) must not shadow ide/mod.
	input := `<NFe><infNFe>
  <ide><mod>55</mod><NFref><refNF><mod>01</mod></refNF></NFref></ide>
</infNFe></NFe>`

	if _, err := Parse([]byte(input)); err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
}

func TestParse_InputTooLarge(t *testing.T) {
	// Not parallel: mutates MaxInputSize.
	orig := MaxInputSize
	MaxInputSize = 64
	defer func() { MaxInputSize = orig }()

	_, err := Parse([]byte(minimalNFe("55")))
	if !errors.Is(err, ErrParse) {
		t.Fatalf("Parse() error = %v, want ErrParse", err)
	}
}

func TestParse_Latin1Prolog(t *testing.T) {
	t.Parallel()

	// "AÇÚCAR" encoded as ISO-8859-1.
	input := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?>
<NFe><infNFe><ide><mod>55</mod></ide><det><prod><xProd>A`), 0xC7, 0xDA)
	input = append(input, []byte(`CAR</xProd></prod></det></infNFe></NFe>`)...)

	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	out, err := doc.Serialize()
	if err != nil {
		t.Fatalf("Serialize() unexpected error: %v", err)
	}
	if !strings.Contains(out, "AÇÚCAR") {
		t.Errorf("serialized output should contain decoded text, got %q", out)
	}
	if !strings.Contains(out, `encoding="UTF-8"`) {
		t.Errorf("prolog should be rewritten to UTF-8, got %q", out)
	}

	// The rewritten document must parse back to the same text.
	again, err := Parse([]byte(out))
	if err != nil {
		t.Fatalf("re-Parse() unexpected error: %v", err)
	}
	if got := again.Invoice().Items[0].Description; got != "AÇÚCAR" {
		t.Errorf("round-trip description = %q, want %q", got, "AÇÚCAR")
	}
}

// ---------------------------------------------------------------------------
// TestDocument_Products - Namespace-agnostic queries
// ---------------------------------------------------------------------------

func TestDocument_Products(t *testing.T) {
	t.Parallel()

	doc, err := Parse(readFixture(t, "nfe_rastro.xml"))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	products := doc.Products()
	if len(products) != 2 {
		t.Fatalf("Products() returned %d elements, want 2", len(products))
	}
	if got := TextOf(products[0], "xProd"); got != "DIPIRONA 500MG CX 10" {
		t.Errorf("first product xProd = %q", got)
	}
	if n := len(All(products[0], PathTraces)); n != 1 {
		t.Errorf("first product has %d rastro blocks, want 1", n)
	}
	if n := len(All(products[1], PathTraces)); n != 0 {
		t.Errorf("second product has %d rastro blocks, want 0", n)
	}
}

func TestDocument_Copy(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(minimalNFe("55")))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	cp := doc.Copy()
	First(cp.Tree(), PathProducts).FindElement("xProd").SetText("CHANGED")

	if got := TextOf(doc.Tree(), "//det/prod/xProd"); got != "ITEM" {
		t.Errorf("original mutated through copy: xProd = %q", got)
	}
}

func TestQuery_NilScope(t *testing.T) {
	t.Parallel()

	if got := All(nil, PathProducts); got != nil {
		t.Errorf("All(nil) = %v, want nil", got)
	}
	if got := First(nil, PathProducts); got != nil {
		t.Errorf("First(nil) = %v, want nil", got)
	}
	if got := TextOf(First(nil, PathProducts), "xProd"); got != "" {
		t.Errorf("TextOf(typed nil) = %q, want empty", got)
	}
}

func TestTextOf_CompilesOnce(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(minimalNFe("55")))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	const path = "//ide/nNF"
	for range 2 {
		if got := TextOf(doc.Tree(), path); got != "1" {
			t.Errorf("TextOf(%q) = %q, want %q", path, got, "1")
		}
	}
	if _, ok := pathCache.Load(path); !ok {
		t.Errorf("path %q not cached after use", path)
	}

	const invalid = "//ide["
	if got := TextOf(doc.Tree(), invalid); got != "" {
		t.Errorf("TextOf(%q) = %q, want empty", invalid, got)
	}
	if _, ok := pathCache.Load(invalid); ok {
		t.Errorf("invalid path %q was cached", invalid)
	}
}
