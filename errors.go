package coursegen

import (
	"errors"
)

var (
	// ErrUnsupportedFormat is returned for source documents in a format
	// no extractor handles.
	ErrUnsupportedFormat = errors.New("coursegen: unsupported document format")

	// ErrExtractionFailed is returned when a supported document cannot
	// be converted to plain text (corrupt archive, malformed XML, ...).
	ErrExtractionFailed = errors.New("coursegen: text extraction failed")

	// ErrUnreadable is returned when a source document cannot be read
	// from disk.
	ErrUnreadable = errors.New("coursegen: document unreadable")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("coursegen: invalid configuration")

	// ErrOutputInvalid is returned when serialized output fails schema
	// validation before writing.
	ErrOutputInvalid = errors.New("coursegen: output failed schema validation")
)
