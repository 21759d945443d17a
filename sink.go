package sxgraph

import (
	"io"
)

// Sink serializes statements to the wire format, one line each, through a
// caller-supplied writer. Buffering and compression framing are the
// writer's responsibility; the Sink only formats and writes. It is meant to
// be driven by a single goroutine - the wire format is line-oriented and a
// line must never interleave with another.
type Sink struct {
	w     io.Writer
	buf   []byte
	count int64
}

// NewSink creates a Sink writing to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w, buf: make([]byte, 0, 512)}
}

// Write serializes one statement. A write failure is fatal for the run: the
// output stream has no partial-success contract.
func (s *Sink) Write(t Triple) error {
	s.buf = t.appendTo(s.buf[:0])
	s.buf = append(s.buf, '\n')
	if _, err := s.w.Write(s.buf); err != nil {
		return &IoError{Name: "output stream", Err: err}
	}
	s.count++
	return nil
}

// Count returns the number of statements written.
func (s *Sink) Count() int64 {
	return s.count
}
