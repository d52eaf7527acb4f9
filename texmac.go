package texmac

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"git.fractalqb.de/fractalqb/icontainer/islist"
)

// Expander is an incremental macro processor. Input arrives in arbitrary
// chunks through Write, expanded text leaves through the configured writer.
// Token boundaries never depend on chunk boundaries: when a chunk ends
// inside a name, a quote marker or between a name and its possible '(' the
// Expander suspends and continues with the next chunk.
//
// The zero value is not usable, always start from New.
type Expander struct {
	// NestingLimit caps how many argument lists may be open at the same
	// time. A call that would nest deeper fails the Expander. 0 means no
	// limit.
	NestingLimit int

	// Extensions makes undivert fail on targets it cannot serve, i.e.
	// non-numeric ones that name files. When false such targets only
	// raise a warning.
	Extensions bool

	// OnWarn, when not nil, receives out-of-band diagnostics. Warnings
	// never stop expansion.
	OnWarn func(Warning)

	out     io.Writer
	tk      Tokenizer
	lq, rq  string
	macros  map[string]*Macro
	frames  []*frame
	fpool   *frame
	pending *Macro
	skipWS  bool
	dnl     bool
	divnum  int
	divs    map[int]*islist.List
	direct  strings.Builder
	err     error
	closed  bool
}

var _ io.WriteCloser = (*Expander)(nil)

// New returns an Expander that writes expanded text to out. It starts with
// the default quote pair and the bootstrap macros define, divert, undivert,
// divnum, dnl and changequote.
func New(out io.Writer) *Expander {
	x := &Expander{
		out:    out,
		tk:     NewScanner(),
		lq:     DefLQuote,
		rq:     DefRQuote,
		macros: make(map[string]*Macro),
		divs:   make(map[int]*islist.List),
	}
	x.defineBootstrap()
	return x
}

// Write feeds one input chunk and expands as far as the chunk allows. The
// chunk may end anywhere. The first fatal error is returned and poisons the
// Expander: all later Writes report success while ignoring their input, so
// a streaming producer can finish its copy loop and pick the error up from
// Close or Err.
func (x *Expander) Write(p []byte) (int, error) {
	if x.err != nil {
		return len(p), nil
	}
	if x.closed {
		return 0, errClosed
	}
	x.tk.Feed(p)
	err := x.pump()
	if ferr := x.flushDirect(); err == nil {
		err = ferr
	}
	if err != nil {
		return len(p), x.fail(err)
	}
	return len(p), nil
}

// WriteString feeds a string chunk, see Write.
func (x *Expander) WriteString(s string) (int, error) { return x.Write([]byte(s)) }

// Close ends the input. Suspended decisions resolve as if a final empty
// token followed, calls still missing their ')' are dropped with a warning,
// then output reverts to the direct stream and all remaining diversion
// buffers drain in ascending order. Close does not close the underlying
// writer.
func (x *Expander) Close() error {
	if x.err != nil || x.closed {
		return x.err
	}
	x.closed = true
	x.tk.End()
	if err := x.pump(); err != nil {
		x.flushDirect()
		return x.fail(err)
	}
	x.dropFrames()
	x.Divert(0)
	if err := x.Undivert(); err != nil {
		return x.fail(err)
	}
	return x.fail(x.flushDirect())
}

// Err returns the fatal error that poisoned the Expander, if any.
func (x *Expander) Err() error { return x.err }

// Reader expands everything from src and closes the Expander.
func (x *Expander) Reader(src io.Reader) error {
	if _, err := io.Copy(x, src); err != nil {
		if x.err != nil {
			return x.err
		}
		return err
	}
	return x.Close()
}

// Expand runs src through a fresh default Expander and returns the expanded
// text. On error it returns the output produced up to the failure.
func Expand(src string) (string, error) {
	var sb strings.Builder
	x := New(&sb)
	if _, err := x.WriteString(src); err != nil {
		return sb.String(), err
	}
	return sb.String(), x.Close()
}

// Quote wraps s in the current quote pair.
func (x *Expander) Quote(s string) string { return x.lq + s + x.rq }

// ChangeQuote sets the quote delimiters for all input tokenized after the
// call. An empty left marker restores both defaults, any right value given
// with it is dropped; an empty right marker with a left one keeps the
// conventional right default. Quoting can never be disabled.
func (x *Expander) ChangeQuote(left, right string) {
	if left == "" {
		left, right = DefLQuote, DefRQuote
	} else if right == "" {
		right = DefRQuote
	}
	x.lq, x.rq = left, right
	x.tk.SetQuotes(left, right)
}

// Dnl discards the remaining input up to and including the next newline.
func (x *Expander) Dnl() { x.dnl = true }

// flushDirect hands coalesced direct output to the writer. A poisoned
// Expander never writes again.
func (x *Expander) flushDirect() error {
	if x.err != nil {
		x.direct.Reset()
		return nil
	}
	if x.direct.Len() == 0 {
		return nil
	}
	_, err := io.WriteString(x.out, x.direct.String())
	x.direct.Reset()
	return err
}

// fail records err as the Expander's fatal error if it is the first one.
func (x *Expander) fail(err error) error {
	if err != nil && x.err == nil {
		x.err = err
	}
	return err
}

// NestingError is the fatal error for a macro call that would exceed
// Expander.NestingLimit.
type NestingError struct {
	Macro string
	Limit int
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("macro %s nests calls deeper than %d", e.Macro, e.Limit)
}

// MacroError is the fatal error wrapping a native macro's failure.
type MacroError struct {
	Macro string
	Err   error
}

func (e *MacroError) Error() string { return fmt.Sprintf("macro %s: %s", e.Macro, e.Err) }

func (e *MacroError) Unwrap() error { return e.Err }

// ExtensionError is the fatal error for features the engine knows about but
// does not implement, raised only with Expander.Extensions set. Currently
// that is undivert with a file target.
type ExtensionError struct {
	Target string
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("cannot undivert %q: file targets not supported", e.Target)
}

// WarnCode classifies Warnings.
type WarnCode uint8

const (
	// WarnExcessArgs: a native macro got more arguments than declared,
	// the extra ones are ignored.
	WarnExcessArgs WarnCode = iota + 1
	// WarnBadUndivert: undivert skipped a non-numeric target.
	WarnBadUndivert
	// WarnUnclosedCall: input ended inside an argument list, the call and
	// its collected text are dropped.
	WarnUnclosedCall
)

func (c WarnCode) String() string {
	switch c {
	case WarnExcessArgs:
		return "excess arguments ignored"
	case WarnBadUndivert:
		return "unsupported undivert target"
	case WarnUnclosedCall:
		return "unclosed argument list"
	}
	return "unknown warning"
}

// Warning is an out-of-band diagnostic. Macro names the macro being called,
// Arg carries the offending argument where there is one.
type Warning struct {
	Code  WarnCode
	Macro string
	Arg   string
}

func (w Warning) String() string {
	if w.Arg != "" {
		return fmt.Sprintf("%s: %s: %q", w.Macro, w.Code, w.Arg)
	}
	return fmt.Sprintf("%s: %s", w.Macro, w.Code)
}

var errClosed = errors.New("texmac: write after Close")
