package csv

import (
	"errors"
	"fmt"
)

// BadLineMode specifies how Reader.Read reacts when the tokenizer's
// bad-data sink reports a malformed field.
type BadLineMode int

const (
	// BadLineModeError fails the read with a *ParseError.
	BadLineModeError BadLineMode = iota
	// BadLineModeWarn logs via the configured logger and returns the
	// record with the field's best-effort value (default).
	BadLineModeWarn
	// BadLineModeSkip silently returns the record with the field's
	// best-effort value; no error, no log line.
	BadLineModeSkip
)

// String returns the name of m.
func (m BadLineMode) String() string {
	switch m {
	case BadLineModeError:
		return "error"
	case BadLineModeWarn:
		return "warn"
	case BadLineModeSkip:
		return "skip"
	default:
		return fmt.Sprintf("BadLineMode(%d)", m)
	}
}

// ParseError reports a malformed record, with enough position context
// to locate it in the source.
type ParseError struct {
	// Row is the logical record number (1-indexed) containing the error.
	Row int64
	// RawRow is the raw line count (including terminators inside
	// quotes) at the time of the error.
	RawRow int64
	// Err is the underlying error (ErrBadField or ErrFieldCount).
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("csv: record %d (raw line %d): %v", e.Row, e.RawRow, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	// ErrBadField indicates the tokenizer's field processor flagged a
	// field as malformed (bad quoting, or a forbidden line break inside
	// a quoted field).
	ErrBadField = errors.New("csv: malformed field")

	// ErrFieldCount indicates a record's field count did not match
	// ReaderOptions.FieldsPerRecord.
	ErrFieldCount = errors.New("csv: wrong number of fields")
)
