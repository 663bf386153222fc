package tokenizer

// fieldDescriptor is C3's field descriptor: a zero-copy handle onto one
// field's raw content within the current record. start is relative to
// the record's start position in the buffer (row_start), so descriptors
// stay valid across the in-buffer compaction that resets row_start to
// zero -- the stored offset never needs rebasing, only the buffer's own
// absolute bookkeeping does.
type fieldDescriptor struct {
	start      int
	length     int
	quoteCount int
}

// quoted reports whether this field was seen to contain at least one
// quote character while quotes are not ignored (i.e. it is a candidate
// for quote-stripping, well-formed or not).
func (f fieldDescriptor) quoted() bool {
	return f.quoteCount > 0
}

// fieldTable is C3's growable array of field descriptors for the
// current record. clear resets the count without releasing capacity so
// the backing array is reused across records.
type fieldTable struct {
	descriptors []fieldDescriptor
}

func (t *fieldTable) clear() {
	t.descriptors = t.descriptors[:0]
}

func (t *fieldTable) add(start, length, quoteCount int) {
	t.descriptors = append(t.descriptors, fieldDescriptor{
		start:      start,
		length:     length,
		quoteCount: quoteCount,
	})
}

func (t *fieldTable) count() int {
	return len(t.descriptors)
}

func (t *fieldTable) at(i int) (fieldDescriptor, bool) {
	if i < 0 || i >= len(t.descriptors) {
		return fieldDescriptor{}, false
	}
	return t.descriptors[i], true
}
