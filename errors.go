package danfe

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	// ErrRender indicates the DANFE could not be produced.
	ErrRender = errors.New("render failed")

	// ErrIO indicates the PDF could not be written.
	ErrIO = errors.New("output failed")

	ErrEmptyInput     = errors.New("XML content cannot be empty")
	ErrInvalidMargin  = errors.New("invalid margin")
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrInvalidAsset   = errors.New("invalid asset configuration")
	ErrEmptyPDF       = fmt.Errorf("%w: renderer returned no bytes", ErrRender)
)

// Browser failures are kinds of ErrRender.
var (
	ErrBrowserConnect = fmt.Errorf("%w: failed to connect to browser", ErrRender)
	ErrPageCreate     = fmt.Errorf("%w: failed to create browser page", ErrRender)
	ErrPageLoad       = fmt.Errorf("%w: failed to load page", ErrRender)
	ErrPDFGeneration  = fmt.Errorf("%w: PDF generation failed", ErrRender)
)
