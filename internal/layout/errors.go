package layout

import "errors"

// Sentinel errors for page construction.
var (
	// ErrTemplate indicates the DANFE template could not be parsed.
	ErrTemplate = errors.New("invalid DANFE template")

	// ErrLayout indicates the template failed while rendering an invoice.
	ErrLayout = errors.New("DANFE layout failed")

	// ErrNoteConversion indicates the Markdown note could not be converted.
	ErrNoteConversion = errors.New("note conversion failed")
)
