package mucgly

import (
	"bufio"
	"io"
	"os"
)

// OutputSink is one entry of the OutputStack: a writable byte stream with a
// blocked flag and a line counter. Grounded on outfile_t and
// outfile_new/outfile_rem/ps_out in mucgly_mod.c:892-941, 1281-1294.
type OutputSink struct {
	filename string
	writer   *bufio.Writer
	closer   io.Closer // nil for stdout

	line    int
	blocked bool

	flushEachByte bool
}

// NewOutputSink creates a disk-file output sink (or stdout when filename is
// "") (outfile_new).
func NewOutputSink(filename string, flushEachByte bool) (*OutputSink, error) {
	sink := &OutputSink{flushEachByte: flushEachByte}

	if filename != "" {
		f, err := os.Create(filename)
		if err != nil {
			return nil, err
		}
		sink.filename = filename
		sink.writer = bufio.NewWriter(f)
		sink.closer = f
	} else {
		sink.filename = "<STDOUT>"
		sink.writer = bufio.NewWriter(os.Stdout)
		sink.closer = nil
	}

	return sink, nil
}

// NewWriterOutputSink wraps an arbitrary io.Writer as an OutputSink, for
// embedding callers that drive Mucgly.Process directly instead of through
// file paths.
func NewWriterOutputSink(name string, w io.Writer, flushEachByte bool) *OutputSink {
	return &OutputSink{
		filename:      name,
		writer:        bufio.NewWriter(w),
		flushEachByte: flushEachByte,
	}
}

// Filename returns the sink's display name for diagnostics.
func (sink *OutputSink) Filename() string { return sink.filename }

// Line returns the current 0-based output line count.
func (sink *OutputSink) Line() int { return sink.line }

// Block suppresses further writes until Unblock is called (ps_block_output).
func (sink *OutputSink) Block() { sink.blocked = true }

// Unblock resumes writes (ps_unblock_output).
func (sink *OutputSink) Unblock() { sink.blocked = false }

// Blocked reports whether writes are currently suppressed.
func (sink *OutputSink) Blocked() bool { return sink.blocked }

// WriteByte writes c unless the sink is blocked, tracking line count and
// optionally flushing immediately (ps_out).
func (sink *OutputSink) WriteByte(c byte) error {
	if sink.blocked {
		return nil
	}
	if c == '\n' {
		sink.line++
	}
	if err := sink.writer.WriteByte(c); err != nil {
		return err
	}
	if sink.flushEachByte {
		return sink.writer.Flush()
	}
	return nil
}

// WriteString writes each byte of s via WriteByte (ps_out_str). A nil-
// equivalent empty string is a no-op, matching ps_out_str's NULL check.
func (sink *OutputSink) WriteString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := sink.WriteByte(s[i]); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes the underlying writer. Stdout is never closed,
// matching outfile_rem's `if (of->fh != stdout)` guard.
func (sink *OutputSink) Close() error {
	if err := sink.writer.Flush(); err != nil {
		return err
	}
	if sink.closer != nil {
		return sink.closer.Close()
	}
	return nil
}
