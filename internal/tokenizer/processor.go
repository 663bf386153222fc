package tokenizer

// processor implements C5, the field processor: it turns a raw field
// descriptor plus the buffer it points into into a materialized field
// value, applying (in order) outer trim, quote stripping, inner trim,
// the line-break-in-quoted-field bad-data check, and escape unfolding.
//
// processor holds no per-field state; it is configuration plus a reusable
// scratch buffer for escape unfolding, so a single instance is reused for
// every field of every record.
type processor struct {
	cfg     Config
	scratch []byte
}

func newProcessor(cfg Config) processor {
	return processor{cfg: cfg}
}

// result is the outcome of processing one field.
type result struct {
	value   string
	badData bool // the bad-data callback should fire for this field
}

// process materializes raw (the field's untouched slice of the buffer,
// exactly as scanned) into its final value, following the five-step
// pipeline: outer trim, quote strip, inner trim, embedded-line-break
// check, escape unfolding. quoteCount is the quote count the scanner
// recorded for this field, where an escaped quote counts as two (0
// means the field never touched quoting at all, well-formed or
// otherwise).
func (p *processor) process(raw string, quoteCount int) result {
	s := raw
	if p.cfg.Trim == TrimOutside || p.cfg.Trim == TrimBoth {
		s = p.trim(s)
	}

	if quoteCount == 0 {
		return result{value: s}
	}

	if len(s) <= 1 || s[0] != p.cfg.Quote || s[len(s)-1] != p.cfg.Quote {
		// Quote strip failed: malformed. Return what was scanned,
		// unstripped, and stop -- steps 3-5 never apply.
		return result{value: s, badData: true}
	}
	s = s[1 : len(s)-1]

	if p.cfg.Trim == TrimInside || p.cfg.Trim == TrimBoth {
		s = p.trim(s)
	}

	badData := p.cfg.LineBreakInQuotedFieldIsBadData && !p.cfg.IgnoreQuotes && p.hasLineBreak(s)

	value, badEscape := p.unfoldEscapes(s, quoteCount)
	return result{value: value, badData: badData || badEscape}
}

// trim removes leading and trailing bytes in cfg.Whitespace.
func (p *processor) trim(s string) string {
	start := 0
	for start < len(s) && p.cfg.Whitespace[s[start]] {
		start++
	}
	end := len(s)
	for end > start && p.cfg.Whitespace[s[end-1]] {
		end--
	}
	return s[start:end]
}

// hasLineBreak reports whether s (already quote-stripped) contains a CR
// or LF.
func (p *processor) hasLineBreak(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' || s[i] == '\n' {
			return true
		}
	}
	return false
}

// unfoldEscapes collapses escape sequences within a quote-stripped
// field's content. quoteCount == 2 means only the bounding quotes were
// ever seen, so no escape sequence can be present and no copy is made.
// Otherwise it walks s, and on each Escape byte consumes and emits the
// following byte, which must be Quote; if it is not, that is itself
// malformed (Escape not actually escaping anything) and the byte is
// kept as-is.
func (p *processor) unfoldEscapes(s string, quoteCount int) (string, bool) {
	if quoteCount == 2 {
		return s, false
	}

	esc := p.cfg.Escape
	quote := p.cfg.Quote
	bad := false

	p.scratch = p.scratch[:0]
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == esc {
			if i+1 < len(s) && s[i+1] == quote {
				p.scratch = append(p.scratch, quote)
				i++
				continue
			}
			bad = true
			p.scratch = append(p.scratch, c)
			continue
		}
		p.scratch = append(p.scratch, c)
	}
	return string(p.scratch), bad
}
