package main

import (
	"errors"
	"os"

	"github.com/lindfors/postpdf"
	"github.com/lindfors/postpdf/internal/assets"
	"github.com/lindfors/postpdf/internal/config"
	"github.com/lindfors/postpdf/internal/dateutil"
)

// Exit codes for the postpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitRenderer = 4 // typst missing or compile failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Renderer errors (exit 4)
	if errors.Is(err, postpdf.ErrRendererNotFound) ||
		errors.Is(err, postpdf.ErrRenderFailed) {
		return ExitRenderer
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, postpdf.ErrEmptyPath) ||
		errors.Is(err, postpdf.ErrInvalidOption) ||
		errors.Is(err, postpdf.ErrTemplate) ||
		errors.Is(err, assets.ErrTemplateSetNotFound) ||
		errors.Is(err, assets.ErrIncompleteTemplateSet) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidPattern) ||
		errors.Is(err, ErrTooManyInputs) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, postpdf.ErrSourceNotFound) ||
		errors.Is(err, postpdf.ErrWorkingSet) ||
		errors.Is(err, postpdf.ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	return ExitGeneral
}
