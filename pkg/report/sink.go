package report

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"sync"
)

// Sink receives finished report lines in order. It is append-only.
type Sink interface {
	WriteLine(line string) error
}

// WriterSink writes each line to an io.Writer followed by a newline.
type WriterSink struct {
	w *bufio.Writer
}

// NewWriterSink wraps w. Call Flush when the report is done.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: bufio.NewWriter(w)}
}

func (s *WriterSink) WriteLine(line string) error {
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

// Flush writes any buffered lines to the underlying writer.
func (s *WriterSink) Flush() error {
	return s.w.Flush()
}

// LineBuffer keeps lines in memory.
type LineBuffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *LineBuffer) WriteLine(line string) error {
	b.mu.Lock()
	b.lines = append(b.lines, line)
	b.mu.Unlock()
	return nil
}

// Lines returns a copy of the collected lines.
func (b *LineBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// LogSink emits each line as a log record, standing in for a debugger
// output channel.
type LogSink struct {
	Logger *slog.Logger
	Level  slog.Level
}

func (s LogSink) WriteLine(line string) error {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}
	l.Log(context.Background(), s.Level, line)
	return nil
}

// MultiSink duplicates every line to each sink, stopping at the first error.
type MultiSink []Sink

func (m MultiSink) WriteLine(line string) error {
	for _, s := range m {
		if err := s.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}
