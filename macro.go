package texmac

// MacroFunc implements a native macro. args[0] is the macro name as written,
// args[1:] are the collected arguments. The returned text is reinjected and
// rescanned like any other expansion. Implementations must not retain args.
// A non-nil error is fatal and poisons the Expander.
type MacroFunc func(x *Expander, args []string) (string, error)

// Builtin describes a native macro for DefineBuiltin.
type Builtin struct {
	Name string
	// Arity is the declared argument count. Calls with more arguments
	// raise a WarnExcessArgs warning and proceed. Ignored when Variadic.
	Arity int
	// Inert lets a call without parenthesized arguments expand to the
	// quoted macro name instead of running Func.
	Inert bool
	// Variadic accepts any number of arguments without warning.
	Variadic bool
	// Func runs the macro.
	Func MacroFunc
}

// Macro is one entry of an Expander's macro table, backed either by a
// compiled template from Define or by a MacroFunc from DefineBuiltin.
// Calls in flight keep their *Macro, so redefining a name never changes
// calls that were already recognized.
type Macro struct {
	name     string
	tmpl     *template
	fn       MacroFunc
	arity    int
	inert    bool
	variadic bool
}

// Name returns the name the macro is callable as.
func (m *Macro) Name() string { return m.name }

// Define registers name to expand the compiled body template. It replaces
// any previous definition, template or native. An empty name is ignored.
func (x *Expander) Define(name, body string) {
	if name == "" {
		return
	}
	x.macros[name] = &Macro{name: name, tmpl: compileTemplate(body)}
}

// DefineBuiltin registers a native macro, replacing any previous definition
// of the name. Registrations without name or func are ignored.
func (x *Expander) DefineBuiltin(b Builtin) {
	if b.Name == "" || b.Func == nil {
		return
	}
	x.macros[b.Name] = &Macro{
		name:     b.Name,
		fn:       b.Func,
		arity:    b.Arity,
		inert:    b.Inert,
		variadic: b.Variadic,
	}
}

// Defined reports whether name currently has a macro definition.
func (x *Expander) Defined(name string) bool { return x.macros[name] != nil }

// invoke runs one recognized call and returns the expansion text. len(args)
// == 1 marks a call without an argument list; an inert native then yields
// its re-quoted own name, which the rescan turns back into plain text.
func (x *Expander) invoke(m *Macro, args []string) (string, error) {
	if m.fn == nil {
		return m.tmpl.expand(args, x.lq, x.rq), nil
	}
	if m.inert && len(args) == 1 {
		return x.Quote(m.name), nil
	}
	if !m.variadic && len(args)-1 > m.arity {
		x.warn(Warning{Code: WarnExcessArgs, Macro: m.name})
	}
	res, err := m.fn(x, args)
	if err != nil {
		return "", &MacroError{Macro: m.name, Err: err}
	}
	return res, nil
}
