package texmac

import (
	"bytes"
	"unicode/utf8"
)

// Scanner is the standard Tokenizer. It keeps all unconsumed input in a
// single buffer and re-scans from the buffer start on every Next call, so a
// NeedMore answer never loses partial token state. Reinjected expansion text
// goes in front of the buffer and is preferred over pending raw input.
type Scanner struct {
	buf    []byte
	pos    int
	ended  bool
	lq, rq []byte
}

// NewScanner returns a Scanner with the default quote pair.
func NewScanner() *Scanner {
	return &Scanner{lq: []byte(DefLQuote), rq: []byte(DefRQuote)}
}

var _ Tokenizer = (*Scanner)(nil)

// Feed appends an input chunk. The chunk may end anywhere, even inside a
// UTF-8 sequence or a quote marker.
func (s *Scanner) Feed(p []byte) {
	s.compact()
	s.buf = append(s.buf, p...)
}

// End declares the input complete. Pending partial tokens are resolved by
// the next Next calls: a truncated name becomes a name token, an
// unterminated quote yields its contents.
func (s *Scanner) End() { s.ended = true }

// AtEnd reports whether End has been called.
func (s *Scanner) AtEnd() bool { return s.ended }

// Reinject prepends t to the unconsumed input. When the already consumed
// buffer prefix is large enough the text is copied into it, otherwise the
// buffer is rebuilt.
func (s *Scanner) Reinject(t string) {
	switch {
	case t == "":
		return
	case len(t) <= s.pos:
		copy(s.buf[s.pos-len(t):], t)
		s.pos -= len(t)
	default:
		nb := make([]byte, 0, len(t)+len(s.buf)-s.pos)
		nb = append(nb, t...)
		nb = append(nb, s.buf[s.pos:]...)
		s.buf, s.pos = nb, 0
	}
}

// SetQuotes installs the quote markers used for subsequently tokenized text.
// Empty markers disable quote recognition; the Expander never passes empty
// markers, it substitutes the defaults first.
func (s *Scanner) SetQuotes(left, right string) {
	s.lq, s.rq = []byte(left), []byte(right)
}

// Peek returns the next raw byte without consuming it.
func (s *Scanner) Peek() (byte, ScanState) {
	if s.pos >= len(s.buf) {
		if s.ended {
			return 0, Done
		}
		return 0, NeedMore
	}
	return s.buf[s.pos], Ready
}

// Next scans the next token. It consumes input only when it returns Ready,
// so callers can retry the identical call after feeding more data.
func (s *Scanner) Next() (Token, ScanState) {
	rest := s.buf[s.pos:]
	if len(rest) == 0 {
		if s.ended {
			return Token{}, Done
		}
		return Token{}, NeedMore
	}
	if len(s.lq) > 0 {
		if bytes.HasPrefix(rest, s.lq) {
			return s.scanQuoted(rest)
		}
		if !s.ended && len(rest) < len(s.lq) && bytes.HasPrefix(s.lq, rest) {
			// could still become a left quote marker
			return Token{}, NeedMore
		}
	}
	if isNameStart(rest[0]) {
		i := 1
		for i < len(rest) && isNamePart(rest[i]) {
			i++
		}
		if i == len(rest) && !s.ended {
			// the name may continue in the next chunk
			return Token{}, NeedMore
		}
		s.pos += i
		return Token{Kind: TokName, Text: string(rest[:i])}, Ready
	}
	if !s.ended && !utf8.FullRune(rest) {
		return Token{}, NeedMore
	}
	_, size := utf8.DecodeRune(rest)
	s.pos += size
	return Token{Kind: TokLiteral, Text: string(rest[:size])}, Ready
}

// scanQuoted resolves a quoted span starting at the left marker. Nested
// quote pairs are tracked by depth; the check for the right marker comes
// first so that identical left and right markers quote flat. With input at
// its end an unterminated span yields its contents so far, nothing is lost.
func (s *Scanner) scanQuoted(rest []byte) (Token, ScanState) {
	depth := 1
	i := len(s.lq)
	for i < len(rest) {
		switch {
		case bytes.HasPrefix(rest[i:], s.rq):
			depth--
			if depth == 0 {
				s.pos += i + len(s.rq)
				return Token{
					Kind:   TokLiteral,
					Text:   string(rest[len(s.lq):i]),
					Quoted: true,
				}, Ready
			}
			i += len(s.rq)
		case bytes.HasPrefix(rest[i:], s.lq):
			depth++
			i += len(s.lq)
		default:
			i++
		}
	}
	if !s.ended {
		return Token{}, NeedMore
	}
	s.pos = len(s.buf)
	return Token{
		Kind:   TokLiteral,
		Text:   string(rest[len(s.lq):]),
		Quoted: true,
	}, Ready
}

func (s *Scanner) compact() {
	if s.pos > 0 {
		s.buf = append(s.buf[:0], s.buf[s.pos:]...)
		s.pos = 0
	}
}

func isNameStart(b byte) bool {
	return b == '_' || b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z'
}

func isNamePart(b byte) bool { return isNameStart(b) || b >= '0' && b <= '9' }
