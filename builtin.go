package texmac

import "strconv"

// defineBootstrap installs the macros every new Expander starts with. They
// go through the same DefineBuiltin path as host registrations, so a host
// can replace or shadow any of them.
func (x *Expander) defineBootstrap() {
	x.DefineBuiltin(Builtin{Name: "define", Arity: 2, Inert: true, Func: bmDefine})
	x.DefineBuiltin(Builtin{Name: "divert", Arity: 1, Func: bmDivert})
	x.DefineBuiltin(Builtin{Name: "undivert", Variadic: true, Func: bmUndivert})
	x.DefineBuiltin(Builtin{Name: "divnum", Arity: 0, Func: bmDivnum})
	x.DefineBuiltin(Builtin{Name: "dnl", Arity: 0, Func: bmDnl})
	x.DefineBuiltin(Builtin{Name: "changequote", Arity: 2, Func: bmChangeQuote})
}

func bmDefine(x *Expander, args []string) (string, error) {
	var name, body string
	if len(args) > 1 {
		name = args[1]
	}
	if len(args) > 2 {
		body = args[2]
	}
	x.Define(name, body)
	return "", nil
}

// bmDivert coerces its argument leniently: no argument, an empty one or one
// without a leading integer all mean the direct stream.
func bmDivert(x *Expander, args []string) (string, error) {
	n := 0
	if len(args) > 1 {
		n, _ = leadInt(args[1])
	}
	x.Divert(n)
	return "", nil
}

func bmUndivert(x *Expander, args []string) (string, error) {
	return "", x.Undivert(args[1:]...)
}

func bmDivnum(x *Expander, args []string) (string, error) {
	return strconv.Itoa(x.Divnum()), nil
}

func bmDnl(x *Expander, args []string) (string, error) {
	x.Dnl()
	return "", nil
}

func bmChangeQuote(x *Expander, args []string) (string, error) {
	var l, r string
	if len(args) > 1 {
		l = args[1]
	}
	if len(args) > 2 {
		r = args[2]
	}
	x.ChangeQuote(l, r)
	return "", nil
}
