package mucgly

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runMucgly processes input through a fresh Mucgly instance with default
// delimiters and a BasicScriptHost, returning the output bytes.
func runMucgly(t *testing.T, input string) string {
	t.Helper()
	var out strings.Builder
	m := New(nil, nil)
	err := m.Process(strings.NewReader(input), &out)
	require.NoError(t, err)
	return out.String()
}

func TestScenarioScriptExpansion(t *testing.T) {
	got := runMucgly(t, "Hello -<.1+2>- world\n")
	assert.Equal(t, "Hello 3 world\n", got)
}

func TestScenarioEscapedDelimitersPassLiterally(t *testing.T) {
	got := runMucgly(t, `A\-<B\>-C`)
	assert.Equal(t, "A-<B>-C", got)
}

func TestScenarioBlockUnblock(t *testing.T) {
	got := runMucgly(t, "-<:block>-HIDDEN-<:unblock>-SHOWN")
	assert.Equal(t, "SHOWN", got)
}

func TestScenarioEatTailPrefix(t *testing.T) {
	got := runMucgly(t, `-<+. "x">- Y`)
	assert.Equal(t, "xY", got)
}

func TestScenarioDeferredRehook(t *testing.T) {
	got := runMucgly(t, "-<#still>-")
	assert.Equal(t, "-<still>-", got)
}

// TestScenarioHookbegDirectiveChangesBeg exercises scenario 3 from the
// concrete-scenarios list: a `:hookbeg` directive mutates only the begin
// delimiter, leaving end untouched. The example's trailing continuation text
// has no closing hookend of its own, so this test stops at the directive and
// asserts the resulting HookConfig directly rather than round-tripping a
// second, unterminated macro.
func TestScenarioHookbegDirectiveChangesBeg(t *testing.T) {
	cfg := DefaultConfig()
	hook := NewHookConfig(cfg.DefaultHookBeg, cfg.DefaultHookEnd, cfg.DefaultHookEsc)

	// Keep a handle on the source: Run pops it off the stack once it is
	// exhausted, so it cannot be reached through inputStack.Top() afterwards.
	src := NewStringInputSource("<test>", "-<:hookbeg {{>-\n", hook)
	inputStack := NewInputStack()
	inputStack.Push(src)

	var out strings.Builder
	outputStack := NewOutputStack(NewWriterOutputSink("<test>", &out, false))

	host := NewBasicScriptHost()
	state := NewParseState(inputStack, outputStack, host, NewLogger(false, &strings.Builder{}))
	p := NewParser(state, cfg, NewDirectiveDispatcher())
	host.Bind(p)

	require.NoError(t, p.Run())
	require.NoError(t, outputStack.Close())

	got := src.Hook().Pair()
	assert.Equal(t, "{{", got.Beg)
	assert.Equal(t, ">-", got.End)
	assert.Equal(t, "\n", out.String())
}

func TestMacroBalanceInvariant(t *testing.T) {
	var out strings.Builder
	m := New(nil, nil)
	require.NoError(t, m.Process(strings.NewReader("-<.1+2>- -<.3+4>-\n"), &out))
	assert.Equal(t, "3 7\n", out.String())
}

// TestNestedMacrosReemitDelimitersLiterally exercises the glossary's "Macro"
// entry: nested begin/end pairs are echoed straight to the output stream as
// they're seen (not added to the body text used for dispatch), while the
// enclosing comment macro's own body — the concatenation of its non-hook
// bytes at every nesting depth — is discarded as a whole once its matching
// hookend is reached.
func TestNestedMacrosReemitDelimitersLiterally(t *testing.T) {
	got := runMucgly(t, "-</ outer -< inner >- more>-")
	assert.Equal(t, "-<>-", got)
}

func TestDispatchDeterminism(t *testing.T) {
	input := "Hello -<.1+2>- world\n"
	first := runMucgly(t, input)
	second := runMucgly(t, input)
	assert.Equal(t, first, second)
}

func TestUnknownDirectiveReportsError(t *testing.T) {
	var out strings.Builder
	m := New(nil, nil)
	err := m.Process(strings.NewReader("-<:bogus>-"), &out)
	require.Error(t, err)
}

func TestEndOfSourceInsideMacroIsFatal(t *testing.T) {
	var out strings.Builder
	m := New(nil, nil)
	err := m.Process(strings.NewReader("-<.unterminated"), &out)
	require.Error(t, err)
	merr, ok := err.(*MucglyError)
	require.True(t, ok)
	assert.Equal(t, SeverityFatal, merr.Severity)
}

func TestCustomHostIsUsed(t *testing.T) {
	host := &stubHost{}
	m := New(nil, host)

	var out strings.Builder
	require.NoError(t, m.Process(strings.NewReader("-<.ignored>-"), &out))
	assert.Equal(t, "STUB", out.String())
}

// stubHost is a minimal ScriptHost used to confirm Mucgly wires a
// caller-supplied host instead of always falling back to BasicScriptHost.
type stubHost struct {
	cb HostCallbacks
}

func (s *stubHost) Bind(cb HostCallbacks)                  { s.cb = cb }
func (s *stubHost) Eval(code, ctx string) (string, error) { return "STUB", nil }
func (s *stubHost) LoadFile(path string) error             { return nil }
