package postpdf

import "errors"

// Sentinel errors for pipeline operations.
var (
	ErrEmptyPath        = errors.New("source path cannot be empty")
	ErrSourceNotFound   = errors.New("source document not found")
	ErrTemplate         = errors.New("loading template failed")
	ErrWorkingSet       = errors.New("preparing working set failed")
	ErrRendererNotFound = errors.New("typst binary not found")
	ErrRenderFailed     = errors.New("typst compile failed")
	ErrWriteOutput      = errors.New("writing PDF failed")
	ErrInvalidOption    = errors.New("invalid pipeline option")

	// Degraded conditions, reported through Result.Warnings.
	ErrNoMetadata       = errors.New("no metadata section")
	ErrUnclosedMetadata = errors.New("metadata section not closed")
	ErrMissingTitle     = errors.New("title missing")
	ErrUnparseableDate  = errors.New("date not recognized")
	ErrAssetMissing     = errors.New("image not in working set")
)
