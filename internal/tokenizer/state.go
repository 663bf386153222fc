package tokenizer

// This file implements C4, the single-pass state machine. It is written
// as a small number of direct, branch-heavy procedural scans rather than
// a table-driven DFA: CSV's delimiter set is tiny and its branches are
// highly predictable, and a table adds a level of indirection for no
// benefit on that shape of input (the same tradeoff the corpus's own
// DFA experiment documents and recommends against).
//
// Every exported state in the spec's state table is represented here,
// even where two of them are handled by the same Go function, by a
// comment marking which spec state that code is acting as:
//
//	InRecord, InField, InQuotedField, MaybeDelimiter(k), MaybeLineEnd,
//	InComment, InBlankLine

// Tokenizer is the streaming record tokenizer. It is not safe for
// concurrent use; a single Tokenizer processes one input in order.
type Tokenizer struct {
	cfg      Config
	buf      *buffer
	fields   fieldTable
	counters counters
	proc     processor

	fieldStart int // absolute offset into buf.data of the field currently being scanned
	closed     bool
	done       bool // true once NextRecord has returned false with no error
}

// New constructs a Tokenizer over src using cfg, which must already be
// valid (see NewConfig).
func New(src Reader, cfg Config) *Tokenizer {
	return &Tokenizer{
		cfg:      cfg,
		buf:      newBuffer(src, cfg.BufferSize),
		counters: newCounters(cfg),
		proc:     newProcessor(cfg),
	}
}

// Reader is C1, the character source: anything that can fill a
// caller-supplied region with up to len(dst) bytes. io.Reader already
// satisfies this contract exactly, so Tokenizer consumes one directly.
type Reader interface {
	Read(dst []byte) (n int, err error)
}

// ensure guarantees buf.data[buf.pos] is readable, refilling the buffer
// as needed. It reports false only once the source is genuinely
// exhausted with nothing left to deliver.
func (t *Tokenizer) ensure() (bool, error) {
	for t.buf.pos >= t.buf.filled {
		if t.buf.eof {
			return false, nil
		}
		shift, err := t.buf.fill()
		if err != nil {
			return false, err
		}
		if shift != 0 {
			t.fieldStart -= shift
		}
	}
	return true, nil
}

// peek returns the byte at the current scan position without consuming
// it.
func (t *Tokenizer) peek() byte {
	return t.buf.data[t.buf.pos]
}

// advance consumes the byte at the current scan position, updating the
// position counters, and returns it.
func (t *Tokenizer) advance() byte {
	b := t.buf.data[t.buf.pos]
	t.buf.pos++
	t.counters.consume(b)
	return b
}

// NextRecord advances to the next record, returning whether one was
// produced. It returns (false, nil) at a clean end of stream and
// (false, err) on an I/O error from the underlying source.
func (t *Tokenizer) NextRecord() (bool, error) {
	if t.done {
		return false, nil
	}
	t.fields.clear()

	// InRecord: each pass starts a candidate record at the current
	// position.
	for {
		t.buf.startRecord()
		t.fieldStart = t.buf.pos

		ok, err := t.ensure()
		if err != nil {
			return false, err
		}
		if !ok {
			t.done = true
			return false, nil
		}

		c := t.peek()

		// InBlankLine: the record starts with a line terminator and
		// blank lines are being skipped.
		if t.cfg.IgnoreBlankLines && (c == '\r' || c == '\n') {
			if err := t.consumeBlankLine(); err != nil {
				return false, err
			}
			continue
		}

		// InComment: the record starts with the comment marker.
		if t.cfg.AllowComments && c == t.cfg.Comment {
			if err := t.consumeComment(); err != nil {
				return false, err
			}
			continue
		}

		break
	}

	if err := t.scanRecord(); err != nil {
		return false, err
	}
	t.counters.recordDelivered()
	return true, nil
}

// consumeBlankLine consumes a single CR, LF, or CRLF terminator that
// begins a record being skipped as blank. raw_row advances once; row
// does not.
func (t *Tokenizer) consumeBlankLine() error {
	c := t.advance()
	if c == '\r' {
		ok, err := t.ensure()
		if err != nil {
			return err
		}
		if ok && t.peek() == '\n' {
			t.advance()
		}
	}
	return nil
}

// InComment: discard bytes through and including the next line
// terminator (or end of stream).
func (t *Tokenizer) consumeComment() error {
	for {
		ok, err := t.ensure()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		c := t.advance()
		if c == '\r' {
			ok, err := t.ensure()
			if err != nil {
				return err
			}
			if ok && t.peek() == '\n' {
				t.advance()
			}
			return nil
		}
		if c == '\n' {
			return nil
		}
	}
}

// scanRecord scans fields until a line terminator or end of stream ends
// the record, appending one field descriptor per field.
func (t *Tokenizer) scanRecord() error {
	for {
		terminated, err := t.scanField()
		if err != nil {
			return err
		}
		if terminated {
			return nil
		}
		// scanField returned because a delimiter ended the field; the
		// next field begins immediately.
		t.fieldStart = t.buf.pos
	}
}

// scanField scans a single field starting at t.fieldStart, appending its
// descriptor to t.fields. It returns true if the record (and thus the
// whole scanRecord loop) ended -- by a line terminator or end of
// stream -- and false if a delimiter ended just this field, leaving
// buf.pos positioned at the start of the next field.
func (t *Tokenizer) scanField() (recordTerminated bool, err error) {
	// t.fieldStart is read fresh at every use below rather than cached
	// in a local: a buffer compaction mid-field rebases t.fieldStart
	// (and buf.pos) by the same delta, so re-reading it keeps every
	// offset computed from it correct without this function tracking
	// shifts itself.
	quoteCount := 0

	ok, err := t.ensure()
	if err != nil {
		return false, err
	}

	inQuoted := false
	if ok && !t.cfg.IgnoreQuotes && t.peek() == t.cfg.Quote {
		inQuoted = true
		quoteCount = 1
		t.advance()
	}

	for {
		if inQuoted {
			ok, err := t.ensure()
			if err != nil {
				return false, err
			}
			if !ok {
				// InQuotedField -> EOF with no closing quote: treat the
				// field as malformed. t.fieldStart still points at the
				// opening quote byte itself (this branch is only
				// reachable once inQuoted was entered, so the byte at
				// t.fieldStart is always that quote); the committed
				// content must start one byte past it, or the fallback
				// value the field processor produces would carry a
				// leading quote no closing quote ever balanced.
				t.commitField(t.fieldStart+1, quoteCount)
				return true, nil
			}

			c := t.peek()
			if t.cfg.Escape != t.cfg.Quote && c == t.cfg.Escape {
				// Distinct escape character: Escape Quote is an escaped
				// quote. Escape followed by anything else is ordinary
				// content; the field processor flags it as bad data
				// only when the field also holds an escaped quote (a
				// field with just its two bounding quotes is not walked
				// for escapes).
				t.advance()
				ok2, err := t.ensure()
				if err != nil {
					return false, err
				}
				if ok2 && t.peek() == t.cfg.Quote {
					t.advance()
					quoteCount += 2
				}
				continue
			}
			if c == t.cfg.Quote {
				t.advance()
				ok2, err := t.ensure()
				if err != nil {
					return false, err
				}
				if ok2 && t.cfg.Escape == t.cfg.Quote && t.peek() == t.cfg.Quote {
					// Doubled quote: escaped quote, stay in quotes.
					t.advance()
					quoteCount += 2
					continue
				}
				quoteCount++
				inQuoted = false
				continue
			}
			if c == '\r' || c == '\n' {
				// Literal line break inside quotes; policy about
				// whether this is bad data is enforced by the field
				// processor, not here (spec.md §4.4 item 5, §9).
				t.advance()
				continue
			}
			t.advance()
			continue
		}

		// Not (or no longer) inside quotes: InField / MaybeDelimiter(k).
		ok, err := t.ensure()
		if err != nil {
			return false, err
		}
		if !ok {
			t.commitField(t.fieldStart, quoteCount)
			return true, nil
		}

		c := t.peek()
		if c == '\r' {
			// MaybeLineEnd: CR ends the record, with or without a
			// following LF.
			// candidateRel is the field's end position relative to
			// t.fieldStart, captured while both are still in the same
			// buffer frame. The ensure() below may compact the buffer
			// and rebase t.fieldStart (and buf.pos) by the same shift,
			// which leaves this difference invariant -- unlike a bare
			// absolute offset, which would go stale.
			candidateRel := t.buf.pos - t.fieldStart
			t.advance()
			ok2, err := t.ensure()
			if err != nil {
				return false, err
			}
			if ok2 && t.peek() == '\n' {
				t.advance()
			}
			t.commitField2(t.fieldStart, t.fieldStart+candidateRel, quoteCount)
			return true, nil
		}
		if c == '\n' {
			candidate := t.buf.pos
			t.advance()
			t.commitField2(t.fieldStart, candidate, quoteCount)
			return true, nil
		}

		if c == t.cfg.Delimiter[0] {
			matched, err := t.tryMatchDelimiter()
			if err != nil {
				return false, err
			}
			if matched >= 0 {
				t.commitField2(t.fieldStart, matched, quoteCount)
				return false, nil
			}
			// Mismatch: the byte(s) already consumed while probing
			// become ordinary field content; rewind to re-examine the
			// mismatching byte (it may itself start a new candidate).
			continue
		}

		if !t.cfg.IgnoreQuotes && c == t.cfg.Quote {
			// A quote appearing anywhere but the first byte of a field
			// (we only reach here once quoting was never entered, or
			// was already closed and this is trailing content) is
			// malformed: count it so the field processor flags the
			// field for bad-data reporting, but otherwise treat it as
			// ordinary content (spec.md §4.4 item 5).
			quoteCount++
			t.advance()
			continue
		}

		t.advance()
	}
}

// tryMatchDelimiter attempts to match cfg.Delimiter starting at the
// current scan position (whose first byte the caller has already
// confirmed equals Delimiter[0]). On success it returns the absolute
// offset where the delimiter began (the field's end), counts and
// consumes exactly len(Delimiter) bytes, and leaves buf.pos just past
// the delimiter. On a mismatch it counts and consumes only the single
// byte that began the candidate (spec.md §4.4 item 3), leaving buf.pos
// just past it and returning -1 so the caller reprocesses the rest of
// the candidate as ordinary content.
//
// Bytes probed beyond the first are never counted or consumed until
// the whole delimiter is confirmed to match: a partial match that later
// fails must leave every byte but the first available for rescanning,
// and consuming them speculatively via advance would count them twice
// once they are rescanned.
func (t *Tokenizer) tryMatchDelimiter() (matchStart int, err error) {
	candidate := t.buf.pos
	delim := t.cfg.Delimiter
	p := candidate

	for i := 0; i < len(delim); i++ {
		for p >= t.buf.filled {
			if t.buf.eof {
				t.consumeOne(candidate)
				return -1, nil
			}
			shift, ferr := t.buf.fill()
			if ferr != nil {
				return -1, ferr
			}
			if shift != 0 {
				p -= shift
				candidate -= shift
				t.fieldStart -= shift
			}
		}
		if t.buf.data[p] != delim[i] {
			t.consumeOne(candidate)
			return -1, nil
		}
		p++
	}

	for k := candidate; k < p; k++ {
		t.counters.consume(t.buf.data[k])
	}
	t.buf.pos = p
	return candidate, nil
}

// consumeOne counts and consumes exactly the single byte at candidate,
// leaving buf.pos just past it. Used when a delimiter candidate fails to
// match: everything after the first byte must remain unconsumed.
func (t *Tokenizer) consumeOne(candidate int) {
	t.counters.consume(t.buf.data[candidate])
	t.buf.pos = candidate + 1
}

// commitField appends a field descriptor spanning [start, buf.pos).
func (t *Tokenizer) commitField(start, quoteCount int) {
	t.fields.add(start-t.buf.rowStart, t.buf.pos-start, quoteCount)
}

// commitField2 appends a field descriptor spanning [start, end) where
// end may be before buf.pos (a terminator was already consumed past the
// field's content).
func (t *Tokenizer) commitField2(start, end, quoteCount int) {
	t.fields.add(start-t.buf.rowStart, end-start, quoteCount)
}
