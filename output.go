package danfe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Thucosta0/conversor-danfe/internal/fileutil"
)

// DefaultSuffix is appended to the source name when no custom name is given.
const DefaultSuffix = "_DANFE"

const pdfExt = ".pdf"

// outputPerm is the mode of written PDFs.
const outputPerm = 0o644

// DestinationPath computes where the PDF for source is written: the source
// directory, joined with either customName or the source base name.
//
//	DestinationPath("notas/123.xml", "", "_DANFE")           -> notas/123_DANFE.pdf
//	DestinationPath("notas/123.xml", "", "")                 -> notas/123.pdf
//	DestinationPath("notas/123.xml", "Pedido 55.pdf", "_X")  -> notas/Pedido 55.pdf
//
// A custom name is reduced to its base name, loses a trailing ".pdf" (any
// case) and never takes the suffix. The source base name loses its extension.
func DestinationPath(source, customName, suffix string) string {
	dir := filepath.Dir(source)

	if name := customBase(customName); name != "" {
		return filepath.Join(dir, name+pdfExt)
	}

	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+suffix+pdfExt)
}

// customBase strips directories and a trailing .pdf from name.
// Returns "" when nothing usable is left.
func customBase(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	// Accept both separators regardless of platform.
	name = name[strings.LastIndexAny(name, `/\`)+1:]
	if strings.EqualFold(filepath.Ext(name), pdfExt) {
		name = name[:len(name)-len(pdfExt)]
	}
	name = strings.TrimSpace(name)
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// WritePDF writes data to path. It fails with ErrRender when data is
// empty, and with ErrIO when the write fails, writes nothing or the file is
// missing afterwards. A failed write leaves no file behind.
func WritePDF(path string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyPDF
	}

	n, err := fileutil.WriteFileAtomic(path, data, outputPerm)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if n == 0 {
		_ = os.Remove(path)
		return fmt.Errorf("%w: wrote 0 bytes to %s", ErrIO, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s missing after write", ErrIO, path)
		}
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if info.Size() == 0 {
		_ = os.Remove(path)
		return fmt.Errorf("%w: %s is empty after write", ErrIO, path)
	}
	return nil
}
