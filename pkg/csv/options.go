package csv

import (
	"unicode/utf8"

	"github.com/shapestone/flowcsv/internal/tokenizer"
)

// ReaderOptions configures Reader. These mirror encoding/csv.Reader
// where the two overlap, extended with the tokenizer's quoting,
// comment, and bad-data knobs.
type ReaderOptions struct {
	// Comma is the field delimiter. It must be an ASCII character other
	// than \r or \n; 0 selects the default.
	// Default: ','
	Comma rune

	// Comment, if not 0, marks a comment line: lines whose first byte
	// equals Comment are discarded without producing a record.
	// Default: 0 (disabled)
	Comment rune

	// FieldsPerRecord controls field-count validation. If positive,
	// every record must have exactly this many fields. If 0, the first
	// record read sets the expected count for the rest. If negative, no
	// validation is performed.
	// Default: 0
	FieldsPerRecord int

	// LazyQuotes disables quoting entirely: Quote is treated as an
	// ordinary character (tokenizer's IgnoreQuotes).
	// Default: false
	LazyQuotes bool

	// TrimLeadingSpace trims leading and trailing whitespace from every
	// field before quote handling (tokenizer's TrimOutside); trimming
	// only the leading edge is not available.
	// Default: false
	TrimLeadingSpace bool

	// IgnoreBlankLines skips lines that are empty terminators with no
	// field content, rather than emitting a single empty-string record.
	// Default: false
	IgnoreBlankLines bool

	// LineBreakInQuotedFieldIsBadData, if true, reports a CR or LF found
	// inside a quoted field through the bad-data sink.
	// Default: false
	LineBreakInQuotedFieldIsBadData bool

	// BadLineMode controls how Reader.Read reacts to a malformed field
	// reported by the tokenizer's bad-data sink.
	// Default: BadLineModeWarn
	BadLineMode BadLineMode

	// BufferSize hints the tokenizer's initial buffer capacity.
	// Default: 4096
	BufferSize int
}

// DefaultReaderOptions returns the default reader configuration.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{
		Comma:           ',',
		FieldsPerRecord: 0,
		BadLineMode:     BadLineModeWarn,
	}
}

// toTokenizerConfig translates opts into a tokenizer.Config, wiring sink
// into OnBadData so Reader can observe every malformed field the
// tokenizer reports.
func (o ReaderOptions) toTokenizerConfig(sink tokenizer.OnBadData) (tokenizer.Config, error) {
	if o.Comma == 0 {
		o.Comma = ','
	}
	if !validDelimiterRune(o.Comma) {
		return tokenizer.Config{}, &OptionsError{Field: "Comma", Message: "invalid delimiter rune"}
	}
	if o.Comment != 0 && !validDelimiterRune(o.Comment) {
		return tokenizer.Config{}, &OptionsError{Field: "Comment", Message: "invalid comment rune"}
	}

	cfg := tokenizer.Config{
		Delimiter:                       []byte(string(o.Comma)),
		AllowComments:                   o.Comment != 0,
		IgnoreBlankLines:                o.IgnoreBlankLines,
		IgnoreQuotes:                    o.LazyQuotes,
		LineBreakInQuotedFieldIsBadData: o.LineBreakInQuotedFieldIsBadData,
		BufferSize:                      o.BufferSize,
		OnBadData:                       sink,
	}
	if o.Comment != 0 {
		cfg.Comment = byte(o.Comment)
	}
	if o.TrimLeadingSpace {
		cfg.Trim = tokenizer.TrimOutside
	}

	resolved, err := tokenizer.NewConfig(cfg)
	if err != nil {
		return tokenizer.Config{}, err
	}
	return resolved, nil
}

func validDelimiterRune(r rune) bool {
	return r != 0 && r != '\r' && r != '\n' && r != utf8.RuneError && r < utf8.RuneSelf
}

// OptionsError reports an invalid ReaderOptions value.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "csv: invalid " + e.Field + ": " + e.Message
}
