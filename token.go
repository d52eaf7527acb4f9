package texmac

// TokenKind distinguishes the two classes of token a Tokenizer produces.
type TokenKind uint8

const (
	// TokLiteral tokens carry text that is emitted or collected verbatim:
	// a single input character or a resolved quoted span.
	TokLiteral TokenKind = iota
	// TokName tokens are maximal runs matching the macro name grammar
	// [_A-Za-z][_A-Za-z0-9]*. Whether a name actually calls a macro is
	// decided by the Expander, not the Tokenizer.
	TokName
)

// Token is one unit of tokenized input. Quoted marks a TokLiteral that stems
// from a quoted span, with the quote markers already stripped. The flag is
// load bearing: a quoted ')' or ',' must never act as call punctuation and a
// quoted empty string must end leading-blank skipping in argument lists.
type Token struct {
	Kind   TokenKind
	Text   string
	Quoted bool
}

// ScanState tells whether a Tokenizer could produce the next item. The
// explicit tri-state keeps the engine's only suspension point, the wait for
// enough buffered input, visible and testable.
type ScanState uint8

const (
	// Ready: the returned item is valid.
	Ready ScanState = iota
	// NeedMore: the buffered input does not yet determine the next item.
	NeedMore
	// Done: input has ended and the buffer is exhausted.
	Done
)

// Default quote delimiters.
const (
	DefLQuote = "`"
	DefRQuote = "'"
)

// Tokenizer is the token source an Expander pulls from. Feed and Reinject
// put text in, Next and Peek take it out again. Implementations have to be
// incremental: Next must report NeedMore instead of guessing when a token
// boundary cannot be decided from the buffered input alone, e.g. a macro
// name or quote marker cut off by a chunk boundary.
type Tokenizer interface {
	// Feed appends an input chunk to the internal buffer.
	Feed(p []byte)
	// End declares that no more input will ever arrive.
	End()
	// AtEnd reports whether End has been called.
	AtEnd() bool
	// Next returns the next token, or NeedMore/Done without one.
	Next() (Token, ScanState)
	// Peek returns the next raw, untokenized byte without consuming it.
	Peek() (byte, ScanState)
	// Reinject prepends text to be tokenized before all buffered input.
	// This is how macro expansions get rescanned.
	Reinject(s string)
	// SetQuotes changes quote recognition for all text tokenized after the
	// call. Already produced tokens are not revised.
	SetQuotes(left, right string)
}
