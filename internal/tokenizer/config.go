package tokenizer

import "fmt"

// TrimMode selects which parts of a field's whitespace are trimmed by the
// field processor (C5).
type TrimMode int

const (
	// TrimNone performs no trimming.
	TrimNone TrimMode = iota
	// TrimOutside trims leading/trailing whitespace from the raw field,
	// before quote stripping.
	TrimOutside
	// TrimInside trims leading/trailing whitespace from inside a quoted
	// field's content, after quote stripping.
	TrimInside
	// TrimBoth applies both TrimOutside and TrimInside.
	TrimBoth
)

// ConfigError is a construction-time configuration error. It is never
// returned once a Tokenizer has been built.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("tokenizer: invalid %s: %s", e.Field, e.Message)
}

// BadDataContext is passed to the bad-data callback when the field
// processor encounters malformed quoting or a forbidden line break
// inside a quoted field.
type BadDataContext struct {
	// RawRecord is the untransformed source bytes of the record
	// currently being processed, including its trailing terminator.
	RawRecord string
	// Row is the logical row (records delivered) containing the bad field.
	Row int64
	// RawRow is the raw row (terminators seen) at the time of the callback.
	RawRow int64
	// Config is a snapshot of the tokenizer configuration in effect.
	Config Config
}

// OnBadData is invoked when the field processor detects malformed
// quoting or, if configured, a line break inside a quoted field. It may
// panic to abort parsing; Tokenizer does not recover such a panic and is
// safe to discard afterward.
type OnBadData func(ctx BadDataContext)

// Config is the fully resolved, validated configuration a Tokenizer
// consumes. Build one with NewConfig; the zero value is not valid.
type Config struct {
	// Delimiter separates fields. Non-empty; must not equal "\r", "\n",
	// or a single-byte string equal to Quote.
	Delimiter []byte
	// Quote is the quote character. Must not be CR, LF, NUL, or equal to
	// a single-byte Delimiter.
	Quote byte
	// Escape is the character that, inside a quoted field, causes the
	// following quote to be taken as literal content rather than a
	// closing quote. Defaults to Quote (doubled-quote escaping).
	Escape byte
	// Comment is the comment marker. Only consulted when AllowComments
	// is set.
	Comment byte

	AllowComments                   bool
	IgnoreBlankLines                bool
	IgnoreQuotes                    bool
	LineBreakInQuotedFieldIsBadData bool
	CountBytes                      bool

	// BufferSize is the initial capacity of the character buffer. Grows
	// on demand; this is only a hint.
	BufferSize int

	// Whitespace is the set of bytes considered whitespace for trimming.
	Whitespace [256]bool

	// Trim selects which trimming stages the field processor applies.
	Trim TrimMode

	// Encoding computes the byte length of each code unit for
	// ByteCount. Only consulted when CountBytes is set. Defaults to
	// SingleByteEncoding, appropriate for raw byte/ASCII/UTF-8-agnostic
	// counting.
	Encoding ByteEncoder

	// OnBadData is the bad-data sink. If nil, bad data is reported via
	// the field's best-effort value with no side effect.
	OnBadData OnBadData

	// LeaveOpen, when true, means Tokenizer.Close must not close the
	// underlying source even if it implements io.Closer.
	LeaveOpen bool
}

const defaultBufferSize = 4096

// NewConfig resolves opts against defaults and validates it, returning a
// ConfigError for any invalid combination. The returned Config is safe to
// share across multiple Tokenizers (it is read-only once built).
func NewConfig(opts Config) (Config, error) {
	cfg := opts

	if len(cfg.Delimiter) == 0 {
		cfg.Delimiter = []byte{','}
	}
	if cfg.Quote == 0 {
		cfg.Quote = '"'
	}
	if cfg.Escape == 0 {
		cfg.Escape = cfg.Quote
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.Encoding == nil {
		cfg.Encoding = SingleByteEncoding{}
	}
	if cfg.Whitespace == ([256]bool{}) {
		cfg.Whitespace[' '] = true
		cfg.Whitespace['\t'] = true
	}

	if err := validateDelimiter(cfg.Delimiter, cfg.Quote); err != nil {
		return Config{}, err
	}
	if err := validateSingleByte("Quote", cfg.Quote, cfg.Delimiter); err != nil {
		return Config{}, err
	}
	if cfg.Escape != '\r' && cfg.Escape != '\n' {
		// Escape is allowed to equal Quote (the common case); only
		// forbidden from colliding with a single-byte delimiter when
		// distinct from Quote, and from CR/LF always.
	} else {
		return Config{}, &ConfigError{Field: "Escape", Message: "must not be CR or LF"}
	}
	if len(cfg.Delimiter) == 1 && cfg.Escape == cfg.Delimiter[0] && cfg.Escape != cfg.Quote {
		return Config{}, &ConfigError{Field: "Escape", Message: "must not equal a single-byte delimiter"}
	}
	if cfg.AllowComments && cfg.Comment == 0 {
		return Config{}, &ConfigError{Field: "Comment", Message: "required when AllowComments is set"}
	}
	if cfg.AllowComments && len(cfg.Delimiter) == 1 && cfg.Comment == cfg.Delimiter[0] {
		return Config{}, &ConfigError{Field: "Comment", Message: "must not equal a single-byte delimiter"}
	}

	return cfg, nil
}

func validateDelimiter(delim []byte, quote byte) error {
	if len(delim) == 0 {
		return &ConfigError{Field: "Delimiter", Message: "must not be empty"}
	}
	if string(delim) == "\r" || string(delim) == "\n" {
		return &ConfigError{Field: "Delimiter", Message: "must not be a bare CR or LF"}
	}
	if len(delim) == 1 && delim[0] == quote {
		return &ConfigError{Field: "Delimiter", Message: "must not equal the quote character"}
	}
	return nil
}

func validateSingleByte(name string, b byte, delim []byte) error {
	if b == '\r' || b == '\n' || b == 0 {
		return &ConfigError{Field: name, Message: "must not be CR, LF, or NUL"}
	}
	if len(delim) == 1 && delim[0] == b {
		return &ConfigError{Field: name, Message: "must not equal a single-byte delimiter"}
	}
	return nil
}
