package mucgly

import (
	"bufio"
	"io"
	"os"
)

// InputSource is one entry of the InputStack: a readable byte stream with
// its own HookConfig, push-back buffer and line/column bookkeeping. Grounded
// on stackfile_t in mucgly_mod.h and sf_new/sf_get/sf_put/sf_rem in
// mucgly_mod.c.
type InputSource struct {
	filename string
	reader   *bufio.Reader
	closer   io.Closer // nil for stdin

	pushback []byte // stack, oldest-pushed at index 0

	line       int
	column     int
	oldColumn int // column before the last newline, restored on PutBack('\n')

	hook *HookConfig

	macro    bool
	macroLine int
	macroCol  int

	eatTail bool

	// curhook records, for each currently open macro nesting level on this
	// source, which HookPair matched hookbeg so the
	// matching hookend/susp can be looked up without re-probing.
	curhook []HookPair
}

// NewInputSource opens filename (or stdin, when filename is ""), inheriting
// a deep copy of inherit's HookConfig, or the process defaults when inherit
// is nil (sf_new).
func NewInputSource(filename string, inherit *HookConfig, cfg *Config) (*InputSource, error) {
	src := &InputSource{
		pushback: make([]byte, 0, 16),
	}

	if filename != "" {
		f, err := os.Open(filename)
		if err != nil {
			return nil, err
		}
		src.filename = filename
		src.reader = bufio.NewReader(f)
		src.closer = f
	} else {
		src.filename = "<STDIN>"
		src.reader = bufio.NewReader(os.Stdin)
		src.closer = nil
	}

	if inherit != nil {
		src.hook = inherit.Clone()
	} else {
		src.hook = NewHookConfig(cfg.DefaultHookBeg, cfg.DefaultHookEnd, cfg.DefaultHookEsc)
	}

	return src, nil
}

// NewStringInputSource wraps an in-memory string as an InputSource (used by
// Mucgly.Process and by tests, where the input is not a file).
func NewStringInputSource(name, body string, inherit *HookConfig) *InputSource {
	return &InputSource{
		filename: name,
		reader:   bufio.NewReader(stringsReader(body)),
		pushback: make([]byte, 0, 16),
		hook:     inherit.Clone(),
	}
}

func stringsReader(s string) io.Reader { return &stringReaderImpl{s: s} }

type stringReaderImpl struct {
	s string
	i int
}

func (r *stringReaderImpl) Read(p []byte) (int, error) {
	if r.i >= len(r.s) {
		return 0, io.EOF
	}
	n := copy(p, r.s[r.i:])
	r.i += n
	return n, nil
}

// Filename returns the source's display name for diagnostics.
func (src *InputSource) Filename() string { return src.filename }

// Position returns the current 0-based line/column, or the macro-start
// position when inside a macro body: errors raised while evaluating a macro
// point at the macro invocation, not the cursor.
func (src *InputSource) Position() Position {
	if src.macro {
		return Position{Filename: src.filename, Line: src.macroLine, Column: src.macroCol}
	}
	return Position{Filename: src.filename, Line: src.line, Column: src.column}
}

// Hook returns this source's HookConfig.
func (src *InputSource) Hook() *HookConfig { return src.hook }

// SetEatTail arranges for the next byte read (after the current one) to be
// silently discarded, used by the `+`-prefixed macro eat-tail feature (spec
// section 4.5: "Macro body lookup").
func (src *InputSource) SetEatTail() { src.eatTail = true }

// MarkMacro records the current position as a macro's start (sf_mark_macro).
func (src *InputSource) MarkMacro() {
	src.macro = true
	src.macroLine = src.line
	src.macroCol = src.column
}

// UnmarkMacro clears macro-start tracking (sf_unmark_macro).
func (src *InputSource) UnmarkMacro() { src.macro = false }

// PushHook records the HookPair that matched hookbeg for an in-progress
// macro nesting level, so the corresponding hookend lookup skips re-probing
// every active pair.
func (src *InputSource) PushHook(p HookPair) { src.curhook = append(src.curhook, p) }

// PopHook removes the innermost recorded macro HookPair.
func (src *InputSource) PopHook() {
	if len(src.curhook) > 0 {
		src.curhook = src.curhook[:len(src.curhook)-1]
	}
}

// CurrentHook returns the HookPair of the innermost open macro on this
// source, or false if none is open.
func (src *InputSource) CurrentHook() (HookPair, bool) {
	if len(src.curhook) == 0 {
		return HookPair{}, false
	}
	return src.curhook[len(src.curhook)-1], true
}

// Get reads the next byte, or io.EOF (sf_get). Pending push-back bytes are
// drained (LIFO) before the underlying stream is touched.
func (src *InputSource) Get() (byte, error) {
again:
	var c byte
	var err error

	if n := len(src.pushback); n > 0 {
		c = src.pushback[n-1]
		src.pushback = src.pushback[:n-1]
	} else {
		c, err = src.reader.ReadByte()
		if err != nil {
			return 0, err
		}
	}

	if c == '\n' {
		src.oldColumn = src.column
		src.line++
		src.column = 0
	} else {
		src.column++
	}

	if src.eatTail {
		src.eatTail = false
		goto again
	}

	return c, nil
}

// PutBack pushes a byte back onto this source, undoing the line/column
// accounting Get performed on it (sf_put).
func (src *InputSource) PutBack(c byte) {
	if c == '\n' {
		src.line--
		src.column = src.oldColumn
		src.oldColumn = 0
	} else {
		src.column--
	}
	src.pushback = append(src.pushback, c)
}

// Close releases the underlying file handle. Stdin is never closed, matching
// sf_rem's `if (sf->fh != stdin)` guard.
func (src *InputSource) Close() error {
	if src.closer != nil {
		return src.closer.Close()
	}
	return nil
}
