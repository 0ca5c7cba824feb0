package mucgly

import "io"

// Mucgly is the top-level facade: it wires an InputStack, OutputStack,
// ParseState, Parser and ScriptHost together and drives a single parse to
// completion. Grounded on the teacher's pawscript.go New() constructor-wiring
// pattern, adapted from a re-exporting shim (the teacher's own implementation
// lives in a separate src/ package) to an owning constructor, since this
// repo's implementation is flat like the rest of the package.
type Mucgly struct {
	config *Config
	logger *Logger
	host   ScriptHost
}

// New creates a Mucgly instance. A nil config uses DefaultConfig(); a nil
// host uses a fresh BasicScriptHost.
func New(config *Config, host ScriptHost) *Mucgly {
	if config == nil {
		config = DefaultConfig()
	}
	if host == nil {
		host = NewBasicScriptHost()
	}
	return &Mucgly{
		config: config,
		logger: NewLogger(config.Debug, nil),
		host:   host,
	}
}

// ProcessFile runs a full parse: infile (or "" for stdin) as the base input
// source, outfile (or "" for stdout) as the base output sink
// (ps_process_file/ps_new wiring, mucgly_mod.c:952-981, 1745-1954).
func (m *Mucgly) ProcessFile(infile, outfile string) error {
	input, err := NewInputSource(infile, nil, m.config)
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := NewOutputSink(outfile, m.config.FlushEachByte)
	if err != nil {
		return err
	}

	inputStack := NewInputStack()
	inputStack.Push(input)

	outputStack := NewOutputStack(output)

	state := NewParseState(inputStack, outputStack, m.host, m.logger)
	state.Flush = m.config.FlushEachByte

	parser := NewParser(state, m.config, NewDirectiveDispatcher())
	m.host.Bind(parser)

	if err := parser.Run(); err != nil {
		_ = outputStack.Close()
		return err
	}

	return outputStack.Close()
}

// Process runs a full parse reading from r and writing to w, for embedding
// callers that don't want to deal with file paths directly.
func (m *Mucgly) Process(r io.Reader, w io.Writer) error {
	input := NewStringInputSource("<input>", readAll(r), NewHookConfig(
		m.config.DefaultHookBeg, m.config.DefaultHookEnd, m.config.DefaultHookEsc))

	inputStack := NewInputStack()
	inputStack.Push(input)

	output := NewWriterOutputSink("<output>", w, m.config.FlushEachByte)
	outputStack := NewOutputStack(output)

	state := NewParseState(inputStack, outputStack, m.host, m.logger)
	state.Flush = m.config.FlushEachByte

	parser := NewParser(state, m.config, NewDirectiveDispatcher())
	m.host.Bind(parser)

	if err := parser.Run(); err != nil {
		return err
	}
	return outputStack.Close()
}

func readAll(r io.Reader) string {
	data, _ := io.ReadAll(r)
	return string(data)
}
