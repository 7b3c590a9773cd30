package display

import (
	"io"
	"sync"
)

// ClearScreen erases a VT100 screen and homes the cursor.
const ClearScreen = "\x1b[2J\x1b[H"

// Sink receives what an attached Surface shows. Implementations must not
// block for long; they are called from the console loop.
type Sink interface {
	// Output delivers newly rendered bytes of session id.
	Output(id string, data []byte)
	// Clear erases the viewport of session id.
	Clear(id string)
	// Attach switches the viewport to session id and replays its scrollback.
	Attach(id string, replay []byte)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Output(string, []byte) {}
func (NopSink) Clear(string)          {}
func (NopSink) Attach(string, []byte) {}

// WriterSink paints the attached session onto a single VT100 stream such
// as a local terminal.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink writes to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Output(_ string, data []byte) {
	s.write(data)
}

func (s *WriterSink) Clear(string) {
	s.write([]byte(ClearScreen))
}

func (s *WriterSink) Attach(_ string, replay []byte) {
	s.write(append([]byte(ClearScreen), replay...))
}

func (s *WriterSink) write(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.w.Write(p)
}

// Sinks fans out to several sinks in order.
type Sinks []Sink

func (ss Sinks) Output(id string, data []byte) {
	for _, s := range ss {
		s.Output(id, data)
	}
}

func (ss Sinks) Clear(id string) {
	for _, s := range ss {
		s.Clear(id)
	}
}

func (ss Sinks) Attach(id string, replay []byte) {
	for _, s := range ss {
		s.Attach(id, replay)
	}
}
