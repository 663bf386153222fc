package tokenizer

import "io"

// buffer is the contiguous character buffer of C2. It holds at least the
// current in-flight record: data[rowStart:filled) is valid data, pos is
// the next unread position, and data[rowStart:pos) is what the state
// machine has already consumed for the current record.
//
// The buffer never discards bytes the caller can still observe: compact
// only ever slides [rowStart:filled) down to offset zero, and grow only
// happens when there is no room left to slide into.
type buffer struct {
	data     []byte
	rowStart int
	pos      int
	filled   int
	src      io.Reader
	eof      bool
}

func newBuffer(src io.Reader, size int) *buffer {
	if size <= 0 {
		size = defaultBufferSize
	}
	return &buffer{
		data: make([]byte, size),
		src:  src,
	}
}

// fill attempts to make more data available at data[filled:], compacting
// or growing the buffer first if its tail is full. It returns the
// number of bytes the buffer shifted the record down by (0 if no
// compaction happened) so the caller can rebase any absolute offsets it
// is tracking into the buffer, and any I/O error from the source.
//
// fill does not guarantee it read any bytes: a single call may append
// zero bytes (e.g. a source that returns (0, nil)); callers drive fill
// in a loop until either data is available or the stream is exhausted.
func (b *buffer) fill() (shift int, err error) {
	if b.eof {
		return 0, nil
	}

	if b.filled < len(b.data) {
		// Room remains in the tail; no need to compact.
		n, rerr := b.src.Read(b.data[b.filled:])
		if n > 0 {
			b.filled += n
		}
		if rerr != nil {
			if rerr == io.EOF {
				b.eof = true
				return 0, nil
			}
			return 0, rerr
		}
		return 0, nil
	}

	// The buffer's tail is full: compact first, growing only if
	// compaction alone would free no room (rowStart already at 0).
	oldRowStart := b.rowStart
	if b.rowStart == 0 {
		grown := make([]byte, len(b.data)*2)
		copy(grown, b.data)
		b.data = grown
	} else {
		carry := b.filled - b.rowStart
		copy(b.data[0:carry], b.data[b.rowStart:b.filled])
		b.pos -= b.rowStart
		b.filled = carry
		b.rowStart = 0
	}

	n, rerr := b.src.Read(b.data[b.filled:])
	if n > 0 {
		b.filled += n
	}
	if rerr != nil {
		if rerr == io.EOF {
			b.eof = true
			return oldRowStart, nil
		}
		return oldRowStart, rerr
	}
	return oldRowStart, nil
}

// startRecord marks the current position as the start of a new record,
// allowing the buffer to discard everything before it on the next
// compaction.
func (b *buffer) startRecord() {
	b.rowStart = b.pos
}
