package mucgly

// ScriptHost is the opaque external capability that evaluates embedded
// script fragments. This repo treats the real interpreter as a plug-in:
// callers wire up whatever scripting engine they want (Lua, Starlark, an
// embedded Ruby, ...) by implementing this interface; BasicScriptHost in
// scripthost_default.go is the minimal default used by this repo's own
// tests and CLI.
type ScriptHost interface {
	// Eval evaluates code in the given context name ("macro", "statement",
	// ...) and returns its string representation (ps_eval_ruby_str with
	// to_str=TRUE). Callers that only need side effects (bare statement
	// execution) may discard the returned string.
	Eval(code, context string) (string, error)

	// LoadFile loads and executes a script file as a one-shot side effect,
	// without producing output (the `:source` directive; ps_load_ruby_file).
	LoadFile(path string) error

	// Bind gives the host a handle back into the running parse so script
	// code can query/mutate hooks, push/pop streams and write output
	// (the mrb_mucgly_* callback table; mucgly_mod.c:1963-2413).
	Bind(cb HostCallbacks)
}

// HostCallbacks is the vtable a ScriptHost uses to call back into the
// running Parser. Every method here mirrors exactly one of the
// mrb_mucgly_* functions registered in mrb_mruby_mucgly_gem_init
// (mucgly_mod.c:2422-2453).
type HostCallbacks interface {
	// Write appends str to current output without a trailing newline
	// (Mucgly.write).
	Write(str string)

	// Puts appends str to current output followed by a newline
	// (Mucgly.puts).
	Puts(str string)

	// HookBeg, HookEnd and HookEsc return the current source's scalar
	// delimiters (Mucgly.hookbeg/hookend/hookesc).
	HookBeg() string
	HookEnd() string
	HookEsc() string

	// SetHookBeg, SetHookEnd and SetHookEsc mutate one scalar delimiter
	// (Mucgly.sethookbeg/sethookend/sethookesc). SetHook sets both beg and
	// end in one call (Mucgly.sethook).
	SetHookBeg(value string)
	SetHookEnd(value string)
	SetHookEsc(value string)
	SetHook(beg, end string)

	// SetEater sets (has==true) or clears (has==false) the eater string
	// (Mucgly.seteater).
	SetEater(value string, has bool)

	// MultiHook appends one (beg, end, susp) triple, switching the current
	// source to multi-hook mode (Mucgly.multihook).
	MultiHook(beg, end, susp string) error

	// IFilename/ILineNumber/OFilename/OLineNumber report the current
	// input/output position (Mucgly.ifilename/ilinenumber/ofilename/
	// olinenumber). Line numbers are 1-based, matching `of->lineno+1`.
	IFilename() string
	ILineNumber() int
	OFilename() string
	OLineNumber() int

	// PushInput opens filename and defers making it the active input
	// source until the enclosing macro finishes evaluating
	// (Mucgly.pushinput / ps->post_push).
	PushInput(filename string) error

	// CloseInput defers popping the current input source until the
	// enclosing macro finishes evaluating (Mucgly.closeinput /
	// ps->post_pop).
	CloseInput()

	// PushOutput opens filename and makes it the active output sink
	// immediately (Mucgly.pushoutput).
	PushOutput(filename string) error

	// CloseOutput closes and pops the active output sink immediately
	// (Mucgly.closeoutput).
	CloseOutput() error

	// Block and Unblock suppress/resume writes to the active output sink
	// (Mucgly.block/unblock).
	Block()
	Unblock()
}
