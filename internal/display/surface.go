package display

import (
	"errors"
	"sync"

	"github.com/GriffinCanCode/opsconsole/internal/console/style"
)

// ErrSurfaceClosed is returned when a surface is closed twice.
var ErrSurfaceClosed = errors.New("surface already closed")

// Encoding selects how styled text becomes bytes.
type Encoding int

const (
	// EncodeANSI emits SGR escape sequences.
	EncodeANSI Encoding = iota
	// EncodePlain drops styling.
	EncodePlain
)

func (e Encoding) encode(text style.Text) string {
	if e == EncodePlain {
		return text.String()
	}
	return text.ANSI()
}

// Surface is the console.Display of one session. It records everything
// into scrollback and forwards to the sink only while attached.
type Surface struct {
	id       string
	name     string
	encoding Encoding
	buf      *Scrollback
	sink     Sink
	onClose  func(*Surface)

	mu       sync.Mutex
	attached bool
	closed   bool
}

// NewSurface creates a detached surface.
func NewSurface(id, name string, sink Sink, encoding Encoding, scrollback int) *Surface {
	if sink == nil {
		sink = NopSink{}
	}
	return &Surface{
		id:       id,
		name:     name,
		encoding: encoding,
		buf:      NewScrollback(scrollback),
		sink:     sink,
	}
}

// ID returns the session id the surface belongs to.
func (s *Surface) ID() string { return s.id }

// Name returns the session name.
func (s *Surface) Name() string { return s.name }

func (s *Surface) Render(text style.Text) {
	data := []byte(s.encoding.encode(text))
	if len(data) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	_, _ = s.buf.Write(data)
	if s.attached {
		s.sink.Output(s.id, data)
	}
}

func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.buf.Reset()
	if s.attached {
		s.sink.Clear(s.id)
	}
}

func (s *Surface) Attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.attached = true
	s.sink.Attach(s.id, s.buf.Snapshot())
}

func (s *Surface) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached = false
}

func (s *Surface) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSurfaceClosed
	}
	s.closed = true
	s.attached = false
	onClose := s.onClose
	s.mu.Unlock()

	if onClose != nil {
		onClose(s)
	}
	return nil
}

// Attached reports whether output is forwarded to the sink.
func (s *Surface) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached
}

// Closed reports whether Close has run.
func (s *Surface) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Transcript returns the scrollback contents.
func (s *Surface) Transcript() []byte {
	return s.buf.Snapshot()
}
