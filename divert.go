package texmac

import (
	"math"
	"sort"
	"strings"

	"git.fractalqb.de/fractalqb/icontainer/islist"
)

// dchunk is one buffered piece of diverted output. Diversion buffers chain
// dchunks in an intrusive list, so appending expansion output never moves
// text that is already buffered.
type dchunk struct {
	text     string
	islsNext *dchunk
}

// ListNext to implement intrusive singly linked list
func (c *dchunk) ListNext() islist.Node {
	if c.islsNext == nil {
		return nil
	}
	return c.islsNext
}

// SetListNext to implement intrusive singly linked list
func (c *dchunk) SetListNext(n islist.Node) {
	if n == nil {
		c.islsNext = nil
	} else {
		c.islsNext = n.(*dchunk)
	}
}

// Divert routes all subsequent output: index 0 goes directly downstream,
// negative indices discard, positive indices buffer under that index.
func (x *Expander) Divert(n int) { x.divnum = n }

// Divnum returns the diversion index output currently goes to.
func (x *Expander) Divnum() int { return x.divnum }

// Undivert drains diversion buffers into the current output stream and
// deletes them. Without targets all buffers drain in ascending index order.
// With targets each one drains the named buffer; unknown indices are
// no-ops. The buffer output currently goes to is always skipped, it cannot
// be appended to itself. Targets that do not start with an integer are file
// inclusions, which this engine does not support: they raise a
// WarnBadUndivert warning, or an ExtensionError when Extensions is set.
func (x *Expander) Undivert(targets ...string) error {
	live := targets[:0:0]
	for _, t := range targets {
		if t != "" {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		for _, n := range x.divIndexes() {
			if n == x.divnum {
				continue
			}
			if err := x.drain(n); err != nil {
				return err
			}
		}
		return nil
	}
	for _, t := range live {
		n, ok := leadInt(t)
		if !ok {
			if x.Extensions {
				return &ExtensionError{Target: t}
			}
			x.warn(Warning{Code: WarnBadUndivert, Macro: "undivert", Arg: t})
			continue
		}
		if n == x.divnum {
			continue
		}
		if err := x.drain(n); err != nil {
			return err
		}
	}
	return nil
}

// drain moves buffer n to the current output stream and deletes it. A drain
// into the direct stream first flushes pending direct output and then hands
// the buffer downstream as one write, so each drained diversion stays one
// output unit. A negative current index discards, a positive one takes the
// chunks over into its own buffer.
func (x *Expander) drain(n int) error {
	ls := x.divs[n]
	if ls == nil {
		return nil
	}
	delete(x.divs, n)
	switch {
	case x.divnum < 0:
	case x.divnum == 0:
		if err := x.flushDirect(); err != nil {
			return err
		}
		for ls.Len() > 0 {
			c := ls.Front().(*dchunk)
			ls.Drop(1)
			x.direct.WriteString(c.text)
		}
		return x.flushDirect()
	default:
		for ls.Len() > 0 {
			c := ls.Front().(*dchunk)
			ls.Drop(1)
			x.push(x.divnum, &dchunk{text: c.text})
		}
	}
	return nil
}

// route sends expansion output to the stream selected by divnum. Direct
// output is coalesced in x.direct until the Expander flushes.
func (x *Expander) route(text string) {
	if text == "" {
		return
	}
	switch {
	case x.divnum < 0:
	case x.divnum == 0:
		x.direct.WriteString(text)
	default:
		x.push(x.divnum, &dchunk{text: text})
	}
}

// push appends one chunk to diversion buffer n. Buffers come into being with
// the first chunk they receive.
func (x *Expander) push(n int, c *dchunk) {
	if ls := x.divs[n]; ls != nil {
		ls.PushBack(c)
	} else {
		x.divs[n] = islist.New(c)
	}
}

func (x *Expander) divIndexes() []int {
	idxs := make([]int, 0, len(x.divs))
	for n := range x.divs {
		idxs = append(idxs, n)
	}
	sort.Ints(idxs)
	return idxs
}

// leadInt parses a leading optionally signed integer after trimming blanks.
// This is the lenient numeric coercion diversion arguments get: "3" and
// " 3 " parse, "3rd" parses as 3, "x" does not parse. Digit runs beyond the
// int range saturate, they must not wrap into an index of the wrong sign.
func leadInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i, neg := 0, false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	start, n := i, 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		d := int(s[i] - '0')
		if n > (math.MaxInt-d)/10 {
			n = math.MaxInt
		} else {
			n = 10*n + d
		}
		i++
	}
	if i == start {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
