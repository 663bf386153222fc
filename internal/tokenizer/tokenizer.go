package tokenizer

import (
	"strings"
	"unsafe"
)

// unsafeString views b as a string without copying. The view is only
// valid until the next NextRecord call moves or overwrites the buffer:
// FieldRaw and RawRecord hand such views out as they are, while Field
// copies its value out before returning it.
func unsafeString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// FieldCount returns the number of fields in the record most recently
// produced by NextRecord.
func (t *Tokenizer) FieldCount() int {
	return t.fields.count()
}

// rawFieldSlice returns field i's untouched bytes, exactly as scanned,
// including any surrounding quotes.
func (t *Tokenizer) rawFieldSlice(i int) (string, fieldDescriptor, bool) {
	d, ok := t.fields.at(i)
	if !ok {
		return "", fieldDescriptor{}, false
	}
	abs := t.buf.rowStart + d.start
	return unsafeString(t.buf.data[abs : abs+d.length]), d, true
}

// FieldRaw returns field i's untouched content, including surrounding
// quotes if any, exactly as it appeared in the source. It reports false
// if i is out of range.
func (t *Tokenizer) FieldRaw(i int) (string, bool) {
	s, _, ok := t.rawFieldSlice(i)
	return s, ok
}

// Field returns field i fully processed by the field processor: trimmed,
// quote-stripped, and with escapes unfolded according to Config. It
// reports false if i is out of range.
func (t *Tokenizer) Field(i int) (string, bool) {
	raw, d, ok := t.rawFieldSlice(i)
	if !ok {
		return "", false
	}

	res := t.proc.process(raw, d.quoteCount)
	if res.badData && t.cfg.OnBadData != nil {
		t.cfg.OnBadData(BadDataContext{
			RawRecord: t.RawRecord(),
			Row:       t.counters.row,
			RawRow:    t.counters.rawRow,
			Config:    t.cfg,
		})
	}

	return strings.Clone(res.value), true
}

// Record materializes every field of the current record via Field, in
// order.
func (t *Tokenizer) Record() []string {
	out := make([]string, t.FieldCount())
	for i := range out {
		out[i], _ = t.Field(i)
	}
	return out
}

// RawRecord returns the current record's untouched source bytes,
// including its trailing terminator (if any) but not any terminator
// from a preceding skipped blank line or comment.
func (t *Tokenizer) RawRecord() string {
	return unsafeString(t.buf.data[t.buf.rowStart:t.buf.pos])
}

// Row returns the number of records delivered so far, including the one
// currently available. Blank lines and comments never increment it.
func (t *Tokenizer) Row() int64 {
	return t.counters.row
}

// RawRow returns the number of line terminators consumed so far,
// including ones inside quoted fields and ones belonging to skipped
// blank lines or comments.
func (t *Tokenizer) RawRow() int64 {
	return t.counters.rawRow
}

// CharCount returns the number of code units consumed from the source so
// far.
func (t *Tokenizer) CharCount() int64 {
	return t.counters.charCount
}

// ByteCount returns the number of encoded bytes consumed from the source
// so far, computed via Config.Encoding. It stays at zero unless
// Config.CountBytes is set.
func (t *Tokenizer) ByteCount() int64 {
	return t.counters.byteCount
}

// Close releases the Tokenizer's buffer and, unless Config.LeaveOpen is
// set, closes the underlying source if it implements io.Closer. Close is
// idempotent.
func (t *Tokenizer) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.buf.data = nil

	if t.cfg.LeaveOpen {
		return nil
	}
	if c, ok := t.buf.src.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
