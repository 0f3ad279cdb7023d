package log

import (
	"io"
	"os"
	"sync"
)

// WriterOutput writes formatted entries to an io.Writer.
type WriterOutput struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterOutput wraps w. Writes are serialized.
func NewWriterOutput(w io.Writer) *WriterOutput { return &WriterOutput{w: w} }

// NewConsoleOutput writes to stderr so command output on stdout stays clean.
func NewConsoleOutput() *WriterOutput { return NewWriterOutput(os.Stderr) }

func (o *WriterOutput) Write(_ *Entry, formatted []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := o.w.Write(formatted)
	return err
}

// Close closes the underlying writer when it is an io.Closer other than
// stdout or stderr.
func (o *WriterOutput) Close() error {
	if o.w == os.Stderr || o.w == os.Stdout {
		return nil
	}
	if c, ok := o.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// NullOutput discards everything.
type NullOutput struct{}

func (NullOutput) Write(*Entry, []byte) error { return nil }
func (NullOutput) Close() error               { return nil }
