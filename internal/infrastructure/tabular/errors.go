package tabular

import "errors"

// Common reading errors
var (
	// ErrUnsupportedFormat is returned for file extensions the pipeline
	// does not accept; it fails fast, before any staging write
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyFile is returned when the file has no content
	ErrEmptyFile = errors.New("file is empty")

	// ErrInvalidEncoding is returned when a CSV file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when the file has no header row
	ErrMissingHeader = errors.New("file missing header row")
)
