package md2docx

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrTreeBuild      = errors.New("document tree construction failed")
	ErrWriteOutput    = errors.New("writing DOCX output failed")
	ErrReadInput      = errors.New("reading markdown input failed")

	// Configuration errors.
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrStyleNotFound    = errors.New("style not found")
)
