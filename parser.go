package mucgly

import (
	"errors"
	"io"
)

// Parser runs the byte-at-a-time scanning loop against a ParseState,
// recognizing hookesc/hooksusp/hookend/hookbeg sequences and dispatching
// finished macro bodies through a DirectiveDispatcher. Grounded on
// ps_process_file, ps_process_hook_end_seq, ps_process_non_hook_seq,
// ps_enter_macro and ps_get_macro (mucgly_mod.c:1388-1954).
type Parser struct {
	state      *ParseState
	config     *Config
	dispatcher *DirectiveDispatcher

	// pendingPush holds InputSources opened by `:include`/PushInput while
	// a macro body was being evaluated; all of them are made visible at
	// once, newest on top, once the enclosing macro finishes evaluating
	// (resolveDeferred).
	pendingPush []*InputSource
}

// NewParser wires a Parser around an existing ParseState.
func NewParser(state *ParseState, config *Config, dispatcher *DirectiveDispatcher) *Parser {
	return &Parser{state: state, config: config, dispatcher: dispatcher}
}

// Run drives the main scanning loop until the input stack is exhausted or a
// `:exit` directive or error stops it early.
func (p *Parser) Run() error {
	for {
		c, rerr := p.state.Input.GetOne()
		eof := errors.Is(rerr, io.EOF)
		if rerr != nil && !eof {
			return rerr
		}

		top := p.state.Input.Top()

		hit := !eof && top != nil && top.Hook().FirstByteHit(c)
		if !hit {
			stop, err := p.processNonHookSeq(c, eof)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
			continue
		}

		p.state.Input.PutBack(c)

		switch {
		case p.checkHookEsc():
			stop, err := p.handleEscape()
			if err != nil {
				return err
			}
			if stop {
				return nil
			}

		case p.state.InMacroBody() && p.checkHookSusp():
			p.state.Suspension++
			pair, _ := top.CurrentHook()
			p.state.MacroBuf().WriteString(pair.Susp)

		case p.state.InMacroBody() && p.checkHookEnd():
			if p.state.Suspension == 0 {
				stop, err := p.processHookEndSeq()
				if err != nil {
					return err
				}
				if stop {
					return nil
				}
			} else {
				p.state.Suspension--
				pair, _ := top.CurrentHook()
				p.state.MacroBuf().WriteString(pair.End)
			}

		case p.checkHookBeg():
			if p.state.InMacroBody() {
				p.state.InMacro++
				pair, _ := top.CurrentHook()
				if err := p.state.Output.WriteString(pair.Beg); err != nil {
					return err
				}
			} else {
				p.enterMacro()
			}

		default:
			c2, rerr2 := p.state.Input.GetOne()
			eof2 := errors.Is(rerr2, io.EOF)
			if rerr2 != nil && !eof2 {
				return rerr2
			}
			stop, err := p.processNonHookSeq(c2, eof2)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	}
}

// checkHookEsc probes for the current source's escape sequence, consuming
// it on a match (ps_check_hookesc).
func (p *Parser) checkHookEsc() bool {
	top := p.state.Input.Top()
	if top == nil {
		return false
	}
	return p.state.Input.Check(top.Hook().Esc(), true)
}

// checkHookBeg probes for a hookbeg sequence: every multi-hook pair's beg in
// registration order in multi mode, or the single scalar beg otherwise,
// recording the matching pair on the source's curhook stack
// (ps_check_hookbeg).
func (p *Parser) checkHookBeg() bool {
	top := p.state.Input.Top()
	if top == nil {
		return false
	}
	hc := top.Hook()

	if hc.Multi() {
		for _, pair := range hc.MultiPairs() {
			if p.state.Input.Check(pair.Beg, true) {
				top.PushHook(pair)
				return true
			}
		}
		return false
	}

	if p.state.Input.Check(hc.Pair().Beg, true) {
		top.PushHook(hc.Pair())
		return true
	}
	return false
}

// checkHookEnd probes for the hookend of the innermost open macro
// (ps_check_hookend).
func (p *Parser) checkHookEnd() bool {
	top := p.state.Input.Top()
	if top == nil {
		return false
	}
	pair, ok := top.CurrentHook()
	if !ok {
		return false
	}
	return p.state.Input.Check(pair.End, true)
}

// checkHookSusp probes for the suspension marker of the innermost open
// macro, if one is configured (ps_check_hooksusp).
func (p *Parser) checkHookSusp() bool {
	top := p.state.Input.Top()
	if top == nil {
		return false
	}
	pair, ok := top.CurrentHook()
	if !ok || pair.Susp == "" {
		return false
	}
	return p.state.Input.Check(pair.Susp, true)
}

// checkEater probes for the current source's configured eater string, if
// any (ps_check_eater).
func (p *Parser) checkEater() bool {
	top := p.state.Input.Top()
	if top == nil {
		return false
	}
	eater, has := top.Hook().Eater()
	if !has {
		return false
	}
	return p.state.Input.Check(eater, true)
}

// enterMacro starts collecting a new top-level macro body (ps_enter_macro).
func (p *Parser) enterMacro() {
	p.state.InMacro++
	if top := p.state.Input.Top(); top != nil {
		top.MarkMacro()
	}
	p.state.MacroBuf().Reset()
}

// handleEscape implements the escaped-char branch of the main loop,
// separately for in-macro and outside-macro contexts (the ps_check_hookesc
// TRUE branch of ps_process_file, mucgly_mod.c:1779-1895).
func (p *Parser) handleEscape() (stop bool, err error) {
	top := p.state.Input.Top()

	c, rerr := p.state.Input.GetOne()
	eof := errors.Is(rerr, io.EOF)
	if rerr != nil && !eof {
		return false, rerr
	}

	if p.state.InMacroBody() {
		if eof {
			return false, p.state.Logger.Fatal(p.state.CurrentPosition(), "Got EOF within macro!")
		}

		if (c == ' ' || c == '\n') && top.Hook().EscEqEnd() {
			return p.processHookEndSeq()
		}

		if eater, has := top.Hook().Eater(); has && len(eater) > 0 && eater[0] == c {
			p.state.Input.PutBack(c)
			if p.checkEater() {
				if _, rerr := p.state.Input.GetOne(); rerr != nil && !errors.Is(rerr, io.EOF) {
					return false, rerr
				}
			} else {
				p.state.MacroBuf().WriteByte(c)
			}
			return false, nil
		}

		p.state.MacroBuf().WriteByte(c)
		return false, nil
	}

	// Escape outside a macro.
	if eof {
		return true, nil
	}

	if eater, has := top.Hook().Eater(); has && len(eater) > 0 && eater[0] == c {
		p.state.Input.PutBack(c)
		if p.checkEater() {
			if _, rerr := p.state.Input.GetOne(); rerr != nil && !errors.Is(rerr, io.EOF) {
				return false, rerr
			}
		} else if err := p.state.Output.Write(c); err != nil {
			return false, err
		}
		return false, nil
	}

	switch c {
	case '\n', ' ':
		// Eat newlines/spaces after an escape.
		return false, nil
	default:
		if top.Hook().EscEqBeg() {
			esc := top.Hook().Esc()
			if len(esc) == 1 && c == esc[0] {
				// Escape is one char long and the escaped char was itself
				// the escape (i.e. an escaped escape).
				return false, p.state.Output.Write(c)
			}

			p.state.Input.PutBack(c)
			top.PushHook(top.Hook().Pair())
			p.enterMacro()
			return false, nil
		}

		return false, p.state.Output.Write(c)
	}
}

// processHookEndSeq runs when a hookend sequence matches while in a macro
// body: either decrements a nested macro level (re-emitting the consumed
// hookend literally) or, at the base level, evaluates the finished macro
// (ps_process_hook_end_seq, mucgly_mod.c:1663-1698).
func (p *Parser) processHookEndSeq() (stop bool, err error) {
	top := p.state.Input.Top()

	p.state.InMacro--
	if p.state.InMacro < 0 {
		return false, p.state.Logger.Fatal(p.state.CurrentPosition(), "Internal error in macro status...")
	}

	if p.state.InMacro > 0 {
		pair, _ := top.CurrentHook()
		if err := p.state.Output.WriteString(pair.End); err != nil {
			return false, err
		}
		top.PopHook()
		return false, nil
	}

	cmd := p.getMacro()
	exit, derr := p.dispatcher.Dispatch(p, cmd)
	if derr != nil {
		return false, derr
	}

	top.UnmarkMacro()
	top.PopHook()

	p.resolveDeferred()

	return exit, nil
}

// getMacro returns the collected macro body, honoring the `+`-prefix
// eat-tail convention: a macro body starting with `+` eats the very next
// input char once processing resumes, and the `+` itself is stripped from
// the returned body (ps_get_macro).
func (p *Parser) getMacro() string {
	body := p.state.MacroBuf().String()
	if len(body) > 0 && body[0] == '+' {
		if top := p.state.Input.Top(); top != nil {
			top.SetEatTail()
		}
		return body[1:]
	}
	return body
}

// resolveDeferred applies the deferred input-stack restacking after a macro
// body finishes evaluating: every source opened by `:include`/PushInput
// during the macro becomes visible at once, newest on top, and PostPop closes
// the current source (mucgly_mod.c:1686-1696). Pushing every pending source
// here, in call order, reproduces fs_push_file_delayed linking each delayed
// source above the current top as it's opened: by the time the macro
// finishes, the most recently included file is already the one nearest the
// top.
func (p *Parser) resolveDeferred() {
	if p.state.PostPush > 0 {
		p.state.PostPush = 0
		for _, src := range p.pendingPush {
			p.state.Input.Push(src)
		}
		p.pendingPush = nil
	}

	if p.state.PostPop {
		p.state.PostPop = false
		_ = p.state.Input.Pop()
	}
}

// processNonHookSeq handles a byte that doesn't start (or continue) a hook
// sequence: collected into the macro buffer when inside a macro, written to
// output otherwise. Reports stop==true on EOF outside a macro
// (ps_process_non_hook_seq).
func (p *Parser) processNonHookSeq(c byte, eof bool) (stop bool, err error) {
	if p.state.InMacroBody() {
		if eof {
			return false, p.state.Logger.Fatal(p.state.CurrentPosition(), "Got EOF within macro!")
		}
		p.state.MacroBuf().WriteByte(c)
		return false, nil
	}

	if eof {
		return true, nil
	}
	return false, p.state.Output.Write(c)
}
