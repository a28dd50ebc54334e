package nfe

import (
	"strings"
	"sync"

	"github.com/beevik/etree"
)

// Finder is the query capability shared by *etree.Document and *etree.Element.
// Unprefixed path segments match elements in any namespace, so "det/prod"
// finds both <det><prod> and <nfe:det><nfe:prod>.
type Finder interface {
	FindElementPath(path etree.Path) *etree.Element
	FindElementsPath(path etree.Path) []*etree.Element
}

// Compile-time interface checks.
var (
	_ Finder = (*etree.Document)(nil)
	_ Finder = (*etree.Element)(nil)
)

// Paths used across the package. Relative paths start with "./".
var (
	PathInfNFe     = etree.MustCompilePath("//infNFe")
	PathIdeModel   = etree.MustCompilePath("//infNFe/ide/mod")
	PathAnyModel   = etree.MustCompilePath("//mod")
	PathAccessKey  = etree.MustCompilePath("//protNFe/infProt/chNFe")
	PathAnyKey     = etree.MustCompilePath("//chNFe")
	PathProducts   = etree.MustCompilePath("//det/prod")
	PathTraces     = etree.MustCompilePath(".//rastro")
	PathDesc       = etree.MustCompilePath("./xProd")
	PathLot        = etree.MustCompilePath(".//nLote")
	PathLotQty     = etree.MustCompilePath(".//qLote")
	PathMfgDate    = etree.MustCompilePath(".//dFab")
	PathExpiryDate = etree.MustCompilePath(".//dVal")
)

// All returns every element under scope matching path, in document order.
func All(scope Finder, path etree.Path) []*etree.Element {
	if isNil(scope) {
		return nil
	}
	return scope.FindElementsPath(path)
}

// First returns the first element under scope matching path, or nil.
func First(scope Finder, path etree.Path) *etree.Element {
	if isNil(scope) {
		return nil
	}
	return scope.FindElementPath(path)
}

// Text returns the text of the first match and whether a match exists.
// The text is returned as found; callers trim when they need to.
func Text(scope Finder, path etree.Path) (string, bool) {
	el := First(scope, path)
	if el == nil {
		return "", false
	}
	return el.Text(), true
}

// TextOf is Text with surrounding whitespace removed and the found flag dropped.
// path is compiled once and reused; an invalid path yields "".
func TextOf(scope Finder, path string) string {
	p, ok := compiledPath(path)
	if !ok {
		return ""
	}
	s, _ := Text(scope, p)
	return strings.TrimSpace(s)
}

// pathCache maps path strings used by TextOf to their compiled etree.Path.
var pathCache sync.Map

func compiledPath(path string) (etree.Path, bool) {
	if p, ok := pathCache.Load(path); ok {
		return p.(etree.Path), true
	}
	p, err := etree.CompilePath(path)
	if err != nil {
		return etree.Path{}, false
	}
	pathCache.Store(path, p)
	return p, true
}

// isNil reports whether scope is nil, including typed nil pointers returned
// by a failed First lookup.
func isNil(scope Finder) bool {
	switch s := scope.(type) {
	case nil:
		return true
	case *etree.Element:
		return s == nil
	case *etree.Document:
		return s == nil
	}
	return false
}
