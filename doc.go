/*
Package texmac expands m4-style macros in text streams. An Expander reads
input text in chunks of arbitrary size, replaces macro calls by their
expansion and writes the resulting text downstream. Everything that is not
part of a macro call passes through unchanged, so any text without macro
names is reproduced byte for byte.

A macro is called by writing its name. Names follow the usual identifier
grammar: an underscore or ASCII letter followed by underscores, ASCII
letters or digits. Names are matched maximally, "foobar" never calls a
macro "foo". When a defined name is immediately followed by '(' the call
takes arguments up to the matching ')':

	define(`greet', `Hello $1!')
	greet(`world')

expands to "Hello world!". Between the name and '(' nothing may stand, not
even a space; otherwise the macro is called without arguments. Inside an
argument list, arguments are separated by ',' at paren nesting depth zero
and blanks after '(' and ',' are skipped. A ',', ')' or leading blank that
must not act this way has to be quoted.

# Quoting

Text between the quote markers, by default ` and ', is protected: it is not
scanned for macro names and its parens and commas are not structural. One
level of markers is stripped on the way in, so `quoted' text loses its
markers but keeps its content, and nested pairs stay balanced. The markers
can be changed at any time with changequote; the change applies to all
input after the call. Quotes that are still open when the input ends yield
their content as it stands.

# Macro Definitions

define(`name', `body') registers a replacement text. In the body $1 … $9
(and beyond, digits are read maximally) refer to the call arguments, $0 to
the macro name, $# to the argument count, $* to all arguments joined with
',' and $@ to all arguments each wrapped in the current quote pair. Any
other '$' is ordinary text. The expansion of a call is rescanned, so macros
may expand to text that calls further macros. Redefinition takes effect for
calls recognized after the define, never for calls already in flight.

Hosts register macros on the Go side with Define for template macros and
DefineBuiltin for native ones, before or between feeding input.

# Diversions

Output goes to numbered streams selected with divert(n). Stream 0 is the
direct output, negative numbers discard, positive numbers buffer the text
under their index. undivert brings buffered text back: called without
arguments it drains all buffers in ascending index order, called with
numeric arguments it drains exactly those. Draining appends to the stream
that is current at that moment and deletes the buffer. divnum expands to
the current stream index. When the input ends, output reverts to stream 0
and every remaining buffer drains in ascending order, so diverted text is
never lost.

# Stream Processing

An Expander is an io.WriteCloser. Input chunks may end anywhere, even in
the middle of a macro name, a quote marker or a UTF-8 sequence; the
decision whether such a fragment continues is simply postponed until the
next chunk or Close. Close ends the input and flushes the epilogue, it does
not close the underlying writer.

The first fatal error, e.g. a failing native macro or an exceeded
NestingLimit, poisons the Expander: the failing call reports the error and
afterwards input is accepted and ignored, no further output is written, and
Close and Err keep returning the error. Non-fatal conditions are reported
as Warnings through OnWarn and expansion continues.
*/
package texmac
