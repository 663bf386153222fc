package tokenizer

// ByteEncoder computes the number of encoded bytes a single code unit
// occupies, so Tokenizer can maintain ByteCount alongside CharCount under
// an encoding that differs from "one code unit, one byte". Consumed from
// outside this package (C6's pluggable encoding).
type ByteEncoder interface {
	ByteLength(codeUnit byte) int
}

// SingleByteEncoding is the default ByteEncoder: every code unit the
// Tokenizer reads is already one byte (the Tokenizer operates directly
// on a byte stream), so ByteCount and CharCount coincide.
type SingleByteEncoding struct{}

// ByteLength always returns 1.
func (SingleByteEncoding) ByteLength(byte) int { return 1 }

// UTF8LeadByteEncoding counts bytes under UTF-8, treating the Tokenizer's
// code units as raw bytes of a UTF-8 stream: continuation bytes
// contribute 0 and lead bytes contribute the full length of the rune
// they introduce. Summed over a well-formed UTF-8 stream this yields the
// same total as len() on the original byte slice; it exists for sources
// that count in encoded runes rather than raw bytes elsewhere in the
// pipeline and want a matching ByteCount here.
type UTF8LeadByteEncoding struct{}

// ByteLength returns the UTF-8 sequence length implied by a lead byte,
// or 0 for a continuation byte.
func (UTF8LeadByteEncoding) ByteLength(codeUnit byte) int {
	switch {
	case codeUnit&0x80 == 0x00:
		return 1
	case codeUnit&0xE0 == 0xC0:
		return 2
	case codeUnit&0xF0 == 0xE0:
		return 3
	case codeUnit&0xF8 == 0xF0:
		return 4
	default:
		// continuation byte (0x80-0xBF) or invalid lead byte
		return 0
	}
}

// counters tracks the monotonically non-decreasing position counters of
// C6: char_count, byte_count, row (logical rows delivered), and raw_row
// (terminators seen, including inside quotes).
type counters struct {
	charCount int64
	byteCount int64
	row       int64
	rawRow    int64

	encoding    ByteEncoder
	countBytes  bool
	lastWasCR   bool
}

func newCounters(cfg Config) counters {
	return counters{encoding: cfg.Encoding, countBytes: cfg.CountBytes}
}

// consume records that a single code unit was read from the source.
func (c *counters) consume(b byte) {
	c.charCount++
	if c.countBytes {
		c.byteCount += int64(c.encoding.ByteLength(b))
	}
	switch b {
	case '\r':
		c.rawRow++
		c.lastWasCR = true
	case '\n':
		if !c.lastWasCR {
			c.rawRow++
		}
		c.lastWasCR = false
	default:
		c.lastWasCR = false
	}
}

// recordDelivered bumps the logical row counter. Blank and comment
// lines never call this.
func (c *counters) recordDelivered() {
	c.row++
}
