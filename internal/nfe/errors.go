package nfe

import (
	"errors"
	"fmt"
)

// Sentinel errors for document validation.
var (
	// ErrParse indicates the input is empty or not well-formed XML.
	ErrParse = errors.New("malformed XML")

	// ErrSchema indicates well-formed XML that is not a model 55 NFe.
	ErrSchema = errors.New("invalid NFe document")
)

// ErrUnexpectedModel is the ErrSchema kind for documents of another model,
// such as an NFC-e (65).
var ErrUnexpectedModel = fmt.Errorf("%w: %s", ErrSchema, reasonBadModel)

// Schema failure reasons, appended to ErrSchema.
const (
	reasonMissingRoot  = "missing root element"
	reasonMissingModel = "missing model code"
	reasonBadModel     = "unexpected model code"
)

// ExpectedModel is the model code of a goods NFe, the only model with a DANFE.
const ExpectedModel = "55"
