package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrUnknownKind        = errors.New("unknown storage kind tag")
	ErrFieldTooLarge      = errors.New("record field exceeds sanity bound")
	ErrTruncated          = errors.New("record truncated")
)

// RecordError reports which field of a tensor record failed validation.
type RecordError struct {
	Field   string // Field that failed (e.g. "rank", "index name").
	Details string
	Err     error // Underlying sentinel.
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Err, e.Field, e.Details)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *RecordError) Unwrap() error {
	return e.Err
}

func fieldTooLarge(field string, got, limit int) error {
	return &RecordError{
		Field:   field,
		Details: fmt.Sprintf("%d exceeds limit %d", got, limit),
		Err:     ErrFieldTooLarge,
	}
}
