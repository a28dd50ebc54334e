package main

import (
	"context"
	"errors"
	"os"

	danfe "github.com/Thucosta0/conversor-danfe"
	"github.com/Thucosta0/conversor-danfe/internal/config"
	"github.com/Thucosta0/conversor-danfe/internal/nfe"
	"github.com/Thucosta0/conversor-danfe/internal/watch"
)

// Exit codes for the danfe CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // DANFE written
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid arguments, flags or config
	ExitIO         = 3 // XML unreadable, PDF not written
	ExitRender     = 4 // Layout or browser failure, empty PDF, timeout
	ExitInvalidXML = 5 // Malformed XML or not a model 55 NFe
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Document errors (exit 5)
	if errors.Is(err, nfe.ErrParse) ||
		errors.Is(err, nfe.ErrSchema) ||
		errors.Is(err, danfe.ErrEmptyInput) {
		return ExitInvalidXML
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, danfe.ErrInvalidMargin) ||
		errors.Is(err, danfe.ErrInvalidTimeout) ||
		errors.Is(err, danfe.ErrInvalidAsset) {
		return ExitUsage
	}

	// Render errors (exit 4), browser sentinels included
	if errors.Is(err, danfe.ErrRender) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, danfe.ErrIO) ||
		errors.Is(err, ErrReadXML) ||
		errors.Is(err, watch.ErrWatch) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}
