package csv

import (
	"io"

	"github.com/shapestone/flowcsv/internal/tokenizer"
)

// Reader reads CSV records one at a time from an io.Reader, streaming
// through flowcsv's tokenizer rather than reading the whole input into
// memory first.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	tok  *tokenizer.Tokenizer
	opts ReaderOptions
	log  Logger

	fieldsPerRecord int // resolved lazily when opts.FieldsPerRecord == 0
	badField        bool
	lastBadRow      int64
	lastBadRawRow   int64
}

// NewReader constructs a Reader over r using the default options.
func NewReader(r io.Reader) *Reader {
	cr, err := NewReaderWithOptions(r, DefaultReaderOptions())
	if err != nil {
		// DefaultReaderOptions always resolves; a failure here would be
		// a bug in this package, not a caller error.
		panic(err)
	}
	return cr
}

// NewReaderWithOptions constructs a Reader over r using opts, returning
// an error if opts is invalid.
func NewReaderWithOptions(r io.Reader, opts ReaderOptions) (*Reader, error) {
	cr := &Reader{opts: opts, log: defaultLogger()}

	cfg, err := opts.toTokenizerConfig(cr.onBadData)
	if err != nil {
		return nil, err
	}
	cr.tok = tokenizer.New(r, cfg)
	cr.fieldsPerRecord = opts.FieldsPerRecord
	return cr, nil
}

// SetLogger overrides the Logger used for BadLineModeWarn diagnostics.
func (r *Reader) SetLogger(log Logger) {
	if log != nil {
		r.log = log
	}
}

func (r *Reader) onBadData(ctx tokenizer.BadDataContext) {
	r.badField = true
	r.lastBadRow, r.lastBadRawRow = badDataContextRow(ctx)
}

// Read returns the next record. It returns io.EOF (and a nil record)
// once the input is exhausted.
func (r *Reader) Read() ([]string, error) {
	ok, err := r.tok.NextRecord()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, io.EOF
	}

	r.badField = false
	record := r.tok.Record()

	if r.badField {
		switch r.opts.BadLineMode {
		case BadLineModeError:
			return nil, &ParseError{Row: r.lastBadRow, RawRow: r.lastBadRawRow, Err: ErrBadField}
		case BadLineModeWarn:
			logBadField(r.log, r.lastBadRow, r.lastBadRawRow)
		case BadLineModeSkip:
			// fields already carry their best-effort value; nothing
			// further to do.
		}
	}

	if err := r.checkFieldCount(record); err != nil {
		return record, err
	}
	return record, nil
}

// checkFieldCount enforces ReaderOptions.FieldsPerRecord. A non-nil
// error is returned alongside the record (matching encoding/csv, which
// still hands back the offending record for inspection).
func (r *Reader) checkFieldCount(record []string) error {
	if r.fieldsPerRecord < 0 {
		return nil
	}
	if r.fieldsPerRecord == 0 {
		r.fieldsPerRecord = len(record)
		return nil
	}
	if len(record) != r.fieldsPerRecord {
		return &ParseError{Row: r.tok.Row(), RawRow: r.tok.RawRow(), Err: ErrFieldCount}
	}
	return nil
}

// ReadAll reads every remaining record into memory and returns them.
// Prefer Read in a loop for large inputs.
func (r *Reader) ReadAll() ([][]string, error) {
	var out [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, record)
	}
}

// Row returns the number of records delivered so far.
func (r *Reader) Row() int64 { return r.tok.Row() }

// RawRow returns the number of line terminators consumed so far.
func (r *Reader) RawRow() int64 { return r.tok.RawRow() }

// InputOffset returns the number of code units consumed from the
// underlying reader so far, mirroring encoding/csv.Reader.InputOffset.
func (r *Reader) InputOffset() int64 { return r.tok.CharCount() }

// Close releases the Reader's internal buffer and, unless the
// underlying tokenizer was configured to leave the source open, closes
// it if it implements io.Closer.
func (r *Reader) Close() error {
	return r.tok.Close()
}
