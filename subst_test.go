package texmac

import "testing"

func Test_template(t *testing.T) {
	tests := []struct {
		name string
		body string
		args []string
		want string
	}{
		{"positional", "$1+$2", []string{"m", "a", "b"}, "a+b"},
		{"macro name", "$0($1)", []string{"m", "x"}, "m(x)"},
		{"count", "$#", []string{"m", "a", "b", "c"}, "3"},
		{"count without args", "$#", []string{"m"}, "0"},
		{"star joins", "[$*]", []string{"m", "a", "b"}, "[a,b]"},
		{"star without args", "[$*]", []string{"m"}, "[]"},
		{"all requotes", "$@", []string{"m", "a", "b"}, "`a',`b'"},
		{"digits are maximal", "$12", []string{
			"m", "a1", "a2", "a3", "a4", "a5", "a6",
			"a7", "a8", "a9", "a10", "a11", "a12",
		}, "a12"},
		{"out of range is empty", "<$5>", []string{"m", "a"}, "<>"},
		{"lone dollar is text", "price $USD", []string{"m"}, "price $USD"},
		{"trailing dollar is text", "end$", []string{"m"}, "end$"},
		{"empty body", "", []string{"m", "a"}, ""},
		{"adjacent refs", "$1$2$1", []string{"m", "x", "y"}, "xyx"},
		{"single pass", "$1", []string{"m", "$2"}, "$2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := compileTemplate(tc.body).expand(tc.args, DefLQuote, DefRQuote)
			if got != tc.want {
				t.Errorf("expand %q: got %q, want %q", tc.body, got, tc.want)
			}
		})
	}
}

func Test_template_quotePair(t *testing.T) {
	// $@ uses the quote pair passed for the call, not a compiled-in one
	tmpl := compileTemplate("$@")
	if got := tmpl.expand([]string{"m", "a", "b"}, "[", "]"); got != "[a],[b]" {
		t.Errorf("got %q, want %q", got, "[a],[b]")
	}
	if got := tmpl.expand([]string{"m"}, "[", "]"); got != "" {
		t.Errorf("got %q, want empty for no args", got)
	}
}
