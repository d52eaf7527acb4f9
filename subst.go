package texmac

import (
	"strconv"
	"strings"
)

// template is a define body compiled into literal runs and parameter ops so
// that calls substitute without re-parsing the body.
type template struct {
	segs []tmplSeg
}

// tmplSeg emits its literal prefix, then the value of its op, if any.
type tmplSeg struct {
	lit string
	op  byte
	arg int
}

const (
	opNone  byte = 0
	opArg   byte = '$'
	opCount byte = '#'
	opStar  byte = '*'
	opAll   byte = '@'
)

// compileTemplate splits body at $-references. A '$' followed by digits is a
// parameter reference with a maximal digit run, $#, $* and $@ are the list
// forms, any other '$' stays literal text.
func compileTemplate(body string) *template {
	var (
		t   template
		lit strings.Builder
	)
	emit := func(op byte, arg int) {
		t.segs = append(t.segs, tmplSeg{lit: lit.String(), op: op, arg: arg})
		lit.Reset()
	}
	for i := 0; i < len(body); {
		c := body[i]
		if c != '$' || i+1 >= len(body) {
			lit.WriteByte(c)
			i++
			continue
		}
		switch d := body[i+1]; {
		case d >= '0' && d <= '9':
			j := i + 1
			for j < len(body) && body[j] >= '0' && body[j] <= '9' {
				j++
			}
			n, _ := strconv.Atoi(body[i+1 : j])
			emit(opArg, n)
			i = j
		case d == '#' || d == '*' || d == '@':
			emit(d, 0)
			i += 2
		default:
			lit.WriteByte('$')
			i++
		}
	}
	if lit.Len() > 0 {
		emit(opNone, 0)
	}
	return &t
}

// expand substitutes the call arguments into the template in a single pass.
// args[0] is the macro name, so $0 names the macro and $# counts only the
// real arguments. Out of range references become empty. $@ wraps each
// argument in the quote pair active at call time.
func (t *template) expand(args []string, lq, rq string) string {
	var sb strings.Builder
	for _, sg := range t.segs {
		sb.WriteString(sg.lit)
		switch sg.op {
		case opNone:
		case opCount:
			sb.WriteString(strconv.Itoa(len(args) - 1))
		case opStar:
			sb.WriteString(strings.Join(args[1:], ","))
		case opAll:
			for i, a := range args[1:] {
				if i > 0 {
					sb.WriteByte(',')
				}
				sb.WriteString(lq)
				sb.WriteString(a)
				sb.WriteString(rq)
			}
		case opArg:
			if sg.arg < len(args) {
				sb.WriteString(args[sg.arg])
			}
		}
	}
	return sb.String()
}
