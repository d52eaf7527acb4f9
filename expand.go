package texmac

import "strings"

// frame holds one parenthesized macro call while its arguments are
// collected. args carries the closed slots with args[0] being the macro
// name, cur collects the open slot, depth counts unquoted nested parens
// inside the open slot.
type frame struct {
	m     *Macro
	args  []string
	cur   strings.Builder
	depth int
	pnext *frame
}

// newFrame takes a frame from the pool or allocates one. The args backing
// array of pooled frames is reused.
func (x *Expander) newFrame(m *Macro) *frame {
	f := x.fpool
	if f == nil {
		f = new(frame)
	} else {
		x.fpool = f.pnext
	}
	f.m = m
	f.args = append(f.args[:0], m.name)
	f.cur.Reset()
	f.depth = 0
	f.pnext = nil
	return f
}

func (x *Expander) freeFrame(f *frame) {
	f.m = nil
	f.pnext = x.fpool
	x.fpool = f
}

// pump advances the state machine until the tokenizer runs dry. Resolving a
// pending name comes before pulling the next token, so a call suspended at
// a chunk boundary continues exactly where it stopped. After End the
// tokenizer never answers NeedMore, which lets the same loop also play the
// end of input.
func (x *Expander) pump() error {
	for {
		wait, err := x.resolvePending()
		if err != nil {
			return err
		}
		if wait {
			return nil
		}
		tok, st := x.tk.Next()
		if st != Ready {
			return nil
		}
		if err := x.processToken(tok); err != nil {
			return err
		}
	}
}

// resolvePending decides how a recognized macro name is called. Only an
// immediately following unquoted '(' opens an argument list; anything else,
// including end of input, makes a call without arguments whose expansion is
// reinjected for rescanning. With no byte buffered and input still open the
// decision is postponed.
func (x *Expander) resolvePending() (wait bool, err error) {
	if x.pending == nil {
		return false, nil
	}
	c, st := x.tk.Peek()
	if st == NeedMore {
		return true, nil
	}
	m := x.pending
	x.pending = nil
	// quote recognition precedes call punctuation, so a '(' that begins
	// the left quote marker cannot open an argument list
	if st == Ready && c == '(' && !strings.HasPrefix(x.lq, "(") {
		if x.NestingLimit > 0 && len(x.frames) >= x.NestingLimit {
			return false, &NestingError{Macro: m.name, Limit: x.NestingLimit}
		}
		x.tk.Next()
		x.frames = append(x.frames, x.newFrame(m))
		x.skipWS = true
		return false, nil
	}
	res, err := x.invoke(m, []string{m.name})
	if err != nil {
		return false, err
	}
	x.tk.Reinject(res)
	return false, nil
}

// processToken routes one token. Order matters: dnl suppression eats
// everything up to the newline, then leading argument blanks are skipped,
// then defined names become pending calls, then the innermost open frame or
// the output stream takes the token.
func (x *Expander) processToken(tok Token) error {
	if x.dnl {
		if !tok.Quoted && tok.Text == "\n" {
			x.dnl = false
		}
		return nil
	}
	if x.skipWS {
		if tok.Kind == TokLiteral && !tok.Quoted && isBlank(tok.Text) {
			return nil
		}
		x.skipWS = false
	}
	if tok.Kind == TokName {
		if m := x.macros[tok.Text]; m != nil {
			x.pending = m
			return nil
		}
	}
	if n := len(x.frames); n > 0 {
		return x.frameToken(x.frames[n-1], tok)
	}
	x.route(tok.Text)
	return nil
}

// frameToken feeds one token into the innermost argument list. Parens and
// commas are structural only when unquoted: ')' at depth zero completes the
// call, ',' at depth zero closes the slot and restarts blank skipping,
// nested parens are counted and kept as text.
func (x *Expander) frameToken(f *frame, tok Token) error {
	if tok.Kind == TokLiteral && !tok.Quoted && len(tok.Text) == 1 {
		switch tok.Text[0] {
		case ')':
			if f.depth == 0 {
				return x.closeFrame()
			}
			f.depth--
		case '(':
			f.depth++
		case ',':
			if f.depth == 0 {
				f.args = append(f.args, f.cur.String())
				f.cur.Reset()
				x.skipWS = true
				return nil
			}
		}
	}
	f.cur.WriteString(tok.Text)
	return nil
}

// closeFrame pops the innermost frame, invokes its macro and reinjects the
// expansion in front of all remaining input.
func (x *Expander) closeFrame() error {
	n := len(x.frames) - 1
	f := x.frames[n]
	x.frames = x.frames[:n]
	f.args = append(f.args, f.cur.String())
	res, err := x.invoke(f.m, f.args)
	x.freeFrame(f)
	if err != nil {
		return err
	}
	x.tk.Reinject(res)
	return nil
}

// dropFrames discards calls left open at end of input, innermost first.
// Their collected text is dropped, it never reaches a diversion.
func (x *Expander) dropFrames() {
	for n := len(x.frames); n > 0; n = len(x.frames) {
		f := x.frames[n-1]
		x.frames = x.frames[:n-1]
		x.warn(Warning{Code: WarnUnclosedCall, Macro: f.m.name})
		x.freeFrame(f)
	}
}

func (x *Expander) warn(w Warning) {
	if x.OnWarn != nil {
		x.OnWarn(w)
	}
}

func isBlank(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
