package mucgly

import "strings"

// DirectiveDispatcher recognizes a finished macro body's leading character
// and handles the four prefixes (`:` directive, `.` script-expression-
// output, `/` comment, `#` deferred re-hook), falling through to bare
// script-statement execution for anything else. Grounded on ps_eval_cmd
// (mucgly_mod.c:1542-1654); the dispatch-table-of-prefixes idiom is adapted
// from the teacher's Executor.commands registration map (executor.go).
type DirectiveDispatcher struct {
	directives []directiveEntry
}

type directiveEntry struct {
	name    string // including the leading ':'
	handler func(p *Parser, args string) error
}

// NewDirectiveDispatcher builds the internal-directive table in the exact
// match order the original if/else-if chain uses: longer, more specific
// names (":hookbeg", ":hookall") must be checked before the shorter
// ":hook" they would otherwise be shadowed by.
func NewDirectiveDispatcher() *DirectiveDispatcher {
	d := &DirectiveDispatcher{}
	d.directives = []directiveEntry{
		{":hookbeg", directiveSetHook(HookBeg)},
		{":hookend", directiveSetHook(HookEnd)},
		{":hookesc", directiveSetHook(HookEsc)},
		{":eater", directiveSetEater},
		{":hookall", directiveHookAll},
		{":hook", directiveHook},
		{":include", directiveInclude},
		{":source", directiveSource},
		{":block", directiveBlock},
		{":unblock", directiveUnblock},
		{":comment", directiveComment},
		{":exit", directiveExit},
	}
	return d
}

// Dispatch evaluates one finished macro body (already stripped of its
// leading `+` eat-tail marker, if any) and reports whether processing
// should stop (the `:exit` directive).
func (d *DirectiveDispatcher) Dispatch(p *Parser, cmd string) (exit bool, err error) {
	if cmd == "" {
		return false, nil
	}

	switch cmd[0] {
	case ':':
		return d.dispatchInternal(p, cmd)
	case '.':
		return false, d.dispatchScriptOutput(p, cmd[1:])
	case '/':
		// Comment; discard.
		return false, nil
	case '#':
		return false, d.dispatchDeferredRehook(p, cmd[1:])
	default:
		return false, d.dispatchStatement(p, cmd)
	}
}

func (d *DirectiveDispatcher) dispatchInternal(p *Parser, cmd string) (bool, error) {
	for _, entry := range d.directives {
		if !strings.HasPrefix(cmd, entry.name) {
			continue
		}
		args := ""
		if rest := cmd[len(entry.name):]; len(rest) > 0 {
			args = rest[1:] // skip the separator between name and args
		}
		if err := entry.handler(p, args); err != nil {
			if _, ok := err.(*exitRequest); ok {
				return true, nil
			}
			return false, err
		}
		return false, nil
	}

	return false, p.state.Logger.Error(p.state.CurrentPosition(),
		"Unknown internal command: %q", cmd)
}

// exitRequest is a sentinel used only to let directiveExit signal "stop
// processing" without abusing the error channel for control flow elsewhere.
type exitRequest struct{}

func (e *exitRequest) Error() string { return "exit" }

func directiveExit(p *Parser, args string) error {
	return &exitRequest{}
}

func directiveComment(p *Parser, args string) error { return nil }

func directiveBlock(p *Parser, args string) error {
	p.state.Output.Block()
	return nil
}

func directiveUnblock(p *Parser, args string) error {
	p.state.Output.Unblock()
	return nil
}

func directiveSetHook(kind HookKind) func(p *Parser, args string) error {
	return func(p *Parser, args string) error {
		top := p.state.Input.Top()
		if top == nil {
			return nil
		}
		top.Hook().SetHook(kind, args)
		return nil
	}
}

func directiveSetEater(p *Parser, args string) error {
	top := p.state.Input.Top()
	if top == nil {
		return nil
	}
	top.Hook().SetEater(args)
	return nil
}

func directiveHookAll(p *Parser, args string) error {
	top := p.state.Input.Top()
	if top == nil {
		return nil
	}
	top.Hook().SetHook(HookBeg, args)
	top.Hook().SetHook(HookEnd, args)
	top.Hook().SetHook(HookEsc, args)
	return nil
}

func directiveHook(p *Parser, args string) error {
	top := p.state.Input.Top()
	if top == nil {
		return nil
	}
	pieces := strings.SplitN(args, " ", 2)
	if len(pieces) == 2 {
		top.Hook().SetHook(HookBeg, pieces[0])
		top.Hook().SetHook(HookEnd, pieces[1])
	} else {
		top.Hook().SetHook(HookBeg, pieces[0])
		top.Hook().SetHook(HookEnd, pieces[0])
	}
	return nil
}

func directiveInclude(p *Parser, args string) error {
	inherit := p.state.Input.Top().Hook()
	src, err := NewInputSource(args, inherit, p.config)
	if err != nil {
		return p.state.Logger.Error(p.state.CurrentPosition(), "Can't open %q", args)
	}
	p.pendingPush = append(p.pendingPush, src)
	p.state.PostPush++
	return nil
}

func directiveSource(p *Parser, args string) error {
	if err := p.state.Host.LoadFile(args); err != nil {
		p.state.Logger.Warn(p.state.CurrentPosition(), "Can't load %q: %v", args, err)
	}
	return nil
}

func (d *DirectiveDispatcher) dispatchScriptOutput(p *Parser, code string) error {
	out, err := p.state.Host.Eval(code, "macro")
	if err != nil {
		return p.state.Logger.Error(p.state.CurrentPosition(), "%v", err)
	}
	return p.state.Output.WriteString(out)
}

func (d *DirectiveDispatcher) dispatchDeferredRehook(p *Parser, body string) error {
	top := p.state.Input.Top()
	pair, ok := top.CurrentHook()
	if !ok {
		return p.state.Output.WriteString(body)
	}
	if err := p.state.Output.WriteString(pair.Beg); err != nil {
		return err
	}
	if err := p.state.Output.WriteString(body); err != nil {
		return err
	}
	return p.state.Output.WriteString(pair.End)
}

func (d *DirectiveDispatcher) dispatchStatement(p *Parser, code string) error {
	_, err := p.state.Host.Eval(code, "statement")
	if err != nil {
		return p.state.Logger.Error(p.state.CurrentPosition(), "%v", err)
	}
	return nil
}
