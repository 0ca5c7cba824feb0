package mucgly

// Parser implements HostCallbacks so a bound ScriptHost can call back into
// the running parse (mucgly_mod.c:1963-2413, registered in
// mrb_mruby_mucgly_gem_init).

func (p *Parser) Write(str string) { _ = p.state.Output.WriteString(str) }

func (p *Parser) Puts(str string) {
	_ = p.state.Output.WriteString(str)
	_ = p.state.Output.Write('\n')
}

func (p *Parser) HookBeg() string {
	if top := p.state.Input.Top(); top != nil {
		return top.Hook().Pair().Beg
	}
	return ""
}

func (p *Parser) HookEnd() string {
	if top := p.state.Input.Top(); top != nil {
		return top.Hook().Pair().End
	}
	return ""
}

func (p *Parser) HookEsc() string {
	if top := p.state.Input.Top(); top != nil {
		return top.Hook().Esc()
	}
	return ""
}

func (p *Parser) SetHookBeg(value string) {
	if top := p.state.Input.Top(); top != nil {
		top.Hook().SetHook(HookBeg, value)
	}
}

func (p *Parser) SetHookEnd(value string) {
	if top := p.state.Input.Top(); top != nil {
		top.Hook().SetHook(HookEnd, value)
	}
}

func (p *Parser) SetHookEsc(value string) {
	if top := p.state.Input.Top(); top != nil {
		top.Hook().SetHook(HookEsc, value)
	}
}

func (p *Parser) SetHook(beg, end string) {
	p.SetHookBeg(beg)
	p.SetHookEnd(end)
}

func (p *Parser) SetEater(value string, has bool) {
	top := p.state.Input.Top()
	if top == nil {
		return
	}
	if !has {
		top.Hook().SetEater("")
		return
	}
	top.Hook().SetEater(value)
}

func (p *Parser) MultiHook(beg, end, susp string) error {
	top := p.state.Input.Top()
	if top == nil {
		return nil
	}
	return top.Hook().AddMulti(beg, end, susp)
}

func (p *Parser) IFilename() string {
	if top := p.state.Input.Top(); top != nil {
		return top.Filename()
	}
	return ""
}

func (p *Parser) ILineNumber() int {
	if top := p.state.Input.Top(); top != nil {
		return top.Position().Line + 1
	}
	return 0
}

func (p *Parser) OFilename() string {
	if top := p.state.Output.Top(); top != nil {
		return top.Filename()
	}
	return ""
}

func (p *Parser) OLineNumber() int {
	if top := p.state.Output.Top(); top != nil {
		return top.Line() + 1
	}
	return 0
}

func (p *Parser) PushInput(filename string) error {
	inherit := p.state.Input.Top().Hook()
	src, err := NewInputSource(filename, inherit, p.config)
	if err != nil {
		return err
	}
	p.pendingPush = append(p.pendingPush, src)
	p.state.PostPush++
	return nil
}

func (p *Parser) CloseInput() { p.state.PostPop = true }

func (p *Parser) PushOutput(filename string) error {
	sink, err := NewOutputSink(filename, p.state.Flush)
	if err != nil {
		return err
	}
	p.state.Output.Push(sink)
	return nil
}

func (p *Parser) CloseOutput() error { return p.state.Output.Pop() }

func (p *Parser) Block() { p.state.Output.Block() }

func (p *Parser) Unblock() { p.state.Output.Unblock() }
