package mucgly

import (
	"io"
	"testing"
)

func TestPositionRoundTrip(t *testing.T) {
	src := NewStringInputSource("<test>", "ab\ncd", NewHookConfig("-<", ">-", `\`))

	for _, want := range []byte{'a', 'b', '\n', 'c'} {
		before := src.Position()

		got, err := src.Get()
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != want {
			t.Fatalf("got byte %q, want %q", got, want)
		}

		src.PutBack(got)
		after := src.Position()
		if after != before {
			t.Errorf("position round-trip failed for %q: before=%+v after=%+v", want, before, after)
		}

		// Re-consume so the next iteration advances.
		if _, err := src.Get(); err != nil {
			t.Fatalf("re-Get failed: %v", err)
		}
	}
}

func TestGetTracksLineAndColumn(t *testing.T) {
	src := NewStringInputSource("<test>", "ab\ncd", NewHookConfig("-<", ">-", `\`))

	want := []struct {
		c    byte
		line int
		col  int
	}{
		{'a', 0, 1},
		{'b', 0, 2},
		{'\n', 1, 0},
		{'c', 1, 1},
		{'d', 1, 2},
	}

	for _, w := range want {
		c, err := src.Get()
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if c != w.c {
			t.Fatalf("got byte %q, want %q", c, w.c)
		}
		pos := src.Position()
		if pos.Line != w.line || pos.Column != w.col {
			t.Errorf("after reading %q: got line=%d col=%d, want line=%d col=%d", c, pos.Line, pos.Column, w.line, w.col)
		}
	}

	if _, err := src.Get(); err != io.EOF {
		t.Fatalf("expected io.EOF at end of source, got %v", err)
	}
}

func TestEatTailSkipsOneByteOnResume(t *testing.T) {
	src := NewStringInputSource("<test>", "XYZ", NewHookConfig("-<", ">-", `\`))
	src.SetEatTail()

	c, err := src.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if c != 'Y' {
		t.Errorf("got %q, want Y (X should have been eaten)", c)
	}
}

func TestMarkMacroReportsMacroStartPosition(t *testing.T) {
	src := NewStringInputSource("<test>", "  .42", NewHookConfig("-<", ">-", `\`))

	if _, err := src.Get(); err != nil {
		t.Fatal(err)
	}
	if _, err := src.Get(); err != nil {
		t.Fatal(err)
	}
	src.MarkMacro()

	if _, err := src.Get(); err != nil {
		t.Fatal(err)
	}

	pos := src.Position()
	if pos.Column != 2 {
		t.Errorf("got macro-start column %d, want 2", pos.Column)
	}

	src.UnmarkMacro()
	pos = src.Position()
	if pos.Column != 3 {
		t.Errorf("got cursor column %d after UnmarkMacro, want 3", pos.Column)
	}
}

func TestCurHookStack(t *testing.T) {
	src := NewStringInputSource("<test>", "", NewHookConfig("-<", ">-", `\`))

	if _, ok := src.CurrentHook(); ok {
		t.Fatal("expected no current hook on a fresh source")
	}

	outer := HookPair{Beg: "-<", End: ">-"}
	inner := HookPair{Beg: "{{", End: "}}"}
	src.PushHook(outer)
	src.PushHook(inner)

	got, ok := src.CurrentHook()
	if !ok || got != inner {
		t.Fatalf("got %+v, want innermost pair %+v", got, inner)
	}

	src.PopHook()
	got, ok = src.CurrentHook()
	if !ok || got != outer {
		t.Fatalf("got %+v after pop, want outer pair %+v", got, outer)
	}
}

func TestCloseNeverClosesStdin(t *testing.T) {
	cfg := DefaultConfig()
	src, err := NewInputSource("", nil, cfg)
	if err != nil {
		t.Fatalf("NewInputSource(stdin) failed: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close on stdin-backed source returned error: %v", err)
	}
}
