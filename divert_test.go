package texmac

import (
	"errors"
	"math"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
	"github.com/google/go-cmp/cmp"
)

func TestDivert_ordering(t *testing.T) {
	out, _, err := expandAll("divert(1)one\ndivert(0)two\nundivert(1)three\n", nil)
	testerr.Shall(err).BeNil(t)
	const want = "two\none\nthree\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestDivert_negativeDiscards(t *testing.T) {
	out, _, err := expandAll("divert(-1)gone divert(0)seen\n", nil)
	testerr.Shall(err).BeNil(t)
	if out != "seen\n" {
		t.Errorf("got %q, want %q", out, "seen\n")
	}
}

func TestDivert_closeDrainsAscending(t *testing.T) {
	out, _, err := expandAll("divert(2)second divert(1)first divert(0)direct ", nil)
	testerr.Shall(err).BeNil(t)
	const want = "direct first second "
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestDivert_drainDeletes(t *testing.T) {
	t.Run("across calls", func(t *testing.T) {
		out, _, err := expandAll("divert(1)one divert(0)undivert(1)undivert(1)X\n", nil)
		testerr.Shall(err).BeNil(t)
		if out != "one X\n" {
			t.Errorf("got %q, want second undivert to be a no-op", out)
		}
	})
	t.Run("repeated target in one call", func(t *testing.T) {
		out, _, err := expandAll("divert(1)one divert(0)undivert(1,1)X\n", nil)
		testerr.Shall(err).BeNil(t)
		if out != "one X\n" {
			t.Errorf("got %q, want buffer drained exactly once", out)
		}
	})
}

func TestDivert_selfAppendSkipped(t *testing.T) {
	out, _, err := expandAll("divert(1)body undivert(1)more", nil)
	testerr.Shall(err).BeNil(t)
	if out != "body more" {
		t.Errorf("got %q, want buffer kept intact", out)
	}
}

func TestDivert_drainIntoDiversion(t *testing.T) {
	out, _, err := expandAll("divert(2)two divert(1)one undivert(2)", nil)
	testerr.Shall(err).BeNil(t)
	if out != "one two " {
		t.Errorf("got %q, want buffer 2 appended to buffer 1", out)
	}
}

func TestDivert_emptyBufferDrainsSilently(t *testing.T) {
	out, _, err := expandAll("divert(7)divert(0)undivert(7)x\n", nil)
	testerr.Shall(err).BeNil(t)
	if out != "x\n" {
		t.Errorf("got %q, want %q", out, "x\n")
	}
}

func TestDivert_lenientIndexes(t *testing.T) {
	out, _, err := expandAll("divert(` 2 ')in2 divert(`x')in0 divert(0)undivert\n", nil)
	testerr.Shall(err).BeNil(t)
	const want = "in0 in2 \n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestDivert_hugeIndex(t *testing.T) {
	// an index beyond the int range saturates positive, the text stays
	// buffered and drains at the end instead of being discarded
	out, _, err := expandAll("divert(9999999999999999999)kept divert(0)seen ", nil)
	testerr.Shall(err).BeNil(t)
	if out != "seen kept " {
		t.Errorf("got %q, want %q", out, "seen kept ")
	}
}

func TestDivert_divnum(t *testing.T) {
	// the blank between the second divnum and divert(0) is diverted too
	out, _, err := expandAll("divnum divert(3)divnum divert(0)undivert(3)\n", nil)
	testerr.Shall(err).BeNil(t)
	if out != "0 3 \n" {
		t.Errorf("got %q, want %q", out, "0 3 \n")
	}
}

func TestUndivert_fileTarget(t *testing.T) {
	t.Run("warns by default", func(t *testing.T) {
		out, warns, err := expandAll("undivert(`notes.txt')after\n", nil)
		testerr.Shall(err).BeNil(t)
		if out != "after\n" {
			t.Errorf("got %q, want expansion to continue", out)
		}
		want := []Warning{{
			Code:  WarnBadUndivert,
			Macro: "undivert",
			Arg:   "notes.txt",
		}}
		if diff := cmp.Diff(want, warns); diff != "" {
			t.Errorf("warnings (-want +got):\n%s", diff)
		}
	})
	t.Run("fatal with extensions", func(t *testing.T) {
		_, _, err := expandAll(
			"undivert(`notes.txt')after\n",
			func(x *Expander) { x.Extensions = true },
		)
		var xerr *ExtensionError
		if !errors.As(err, &xerr) {
			t.Fatalf("got %v, want ExtensionError", err)
		}
		if xerr.Target != "notes.txt" {
			t.Errorf("got target %q, want notes.txt", xerr.Target)
		}
	})
}

func TestUndivert_emptyTargetsDrainAll(t *testing.T) {
	out, _, err := expandAll("divert(1)one divert(0)undivert()rest", nil)
	testerr.Shall(err).BeNil(t)
	if out != "one rest" {
		t.Errorf("got %q, want %q", out, "one rest")
	}
}

// unitWriter records every downstream write as its own unit.
type unitWriter []string

func (w *unitWriter) Write(p []byte) (int, error) {
	*w = append(*w, string(p))
	return len(p), nil
}

func TestDivert_outputUnits(t *testing.T) {
	var units unitWriter
	x := New(&units)
	testerr.Shall1(x.WriteString(
		"one divert(1)two divert(0)three undivert(1)four",
	)).BeNil(t)
	testerr.Shall(x.Close()).BeNil(t)
	// literal runs coalesce per chunk, each drained diversion is one write
	want := unitWriter{"one three ", "two ", "four"}
	if diff := cmp.Diff(want, units); diff != "" {
		t.Errorf("output units (-want +got):\n%s", diff)
	}
}

func Test_leadInt(t *testing.T) {
	tests := []struct {
		in string
		n  int
		ok bool
	}{
		{"3", 3, true},
		{" 3 ", 3, true},
		{"3rd", 3, true},
		{"-2", -2, true},
		{"+4", 4, true},
		{"007", 7, true},
		{"9999999999999999999999", math.MaxInt, true},
		{"-9999999999999999999999", -math.MaxInt, true},
		{"", 0, false},
		{"x", 0, false},
		{"-", 0, false},
		{" - 1", 0, false},
	}
	for _, tc := range tests {
		n, ok := leadInt(tc.in)
		if n != tc.n || ok != tc.ok {
			t.Errorf("leadInt(%q): got (%d, %t), want (%d, %t)",
				tc.in, n, ok, tc.n, tc.ok)
		}
	}
}
