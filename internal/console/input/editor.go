package input

import (
	"fmt"
	"strings"
)

// Echo sequences written back to the display.
const (
	CRLF        = "\r\n"
	EraseLeft   = "\b \b"
	ClearLine   = "\r\x1b[K"
	InterruptCh = "^C"
)

// Host is the session side of the editor: where echo goes and what
// happens when a line is submitted.
type Host interface {
	// Echo writes raw terminal text.
	Echo(text string)
	// Prompt writes the prompt for a fresh line.
	Prompt()
	// Submit receives a trimmed line; it may be empty.
	Submit(line string)
	// ClearScreen erases the display.
	ClearScreen()
}

// Editor maintains the pending line of one session.
type Editor struct {
	host      Host
	decoder   *Decoder
	history   *History
	completer *Completer

	buf    []rune
	cursor int
}

// NewEditor returns an editor writing to host. completer may be nil.
func NewEditor(host Host, history *History, completer *Completer) *Editor {
	if history == nil {
		history = NewHistory()
	}
	return &Editor{
		host:      host,
		decoder:   NewDecoder(),
		history:   history,
		completer: completer,
	}
}

// Feed decodes raw input and applies every resulting key.
func (e *Editor) Feed(raw string) {
	for _, k := range e.decoder.Feed(raw) {
		e.Apply(k)
	}
}

// Buffer returns the pending line.
func (e *Editor) Buffer() string {
	return string(e.buf)
}

// Cursor returns the cursor position in runes.
func (e *Editor) Cursor() int {
	return e.cursor
}

// History returns the session history.
func (e *Editor) History() *History {
	return e.history
}

// Decoder returns the input decoder.
func (e *Editor) Decoder() *Decoder {
	return e.decoder
}

// Apply performs one edit operation.
func (e *Editor) Apply(k Key) {
	switch k.Kind {
	case KeyRune:
		e.insert(string(k.Rune))
	case KeyEnter:
		e.submit()
	case KeyBackspace:
		e.backspace()
	case KeyDelete:
		e.deleteForward()
	case KeyTab:
		e.complete()
	case KeyInterrupt:
		e.interrupt()
	case KeyClear:
		e.host.ClearScreen()
		e.host.Prompt()
		e.redrawFrom(0)
	case KeyUp:
		if line, ok := e.history.Prev(); ok {
			e.replace(line)
		}
	case KeyDown:
		if line, ok := e.history.Next(); ok {
			e.replace(line)
		}
	case KeyLeft:
		if e.cursor > 0 {
			e.cursor--
			e.host.Echo("\x1b[D")
		}
	case KeyRight:
		if e.cursor < len(e.buf) {
			e.cursor++
			e.host.Echo("\x1b[C")
		}
	case KeyHome:
		e.echo(left(e.cursor))
		e.cursor = 0
	case KeyEnd:
		e.echo(right(len(e.buf) - e.cursor))
		e.cursor = len(e.buf)
	}
}

func (e *Editor) insert(text string) {
	runes := []rune(text)
	if len(runes) == 0 {
		return
	}
	tail := append([]rune(nil), e.buf[e.cursor:]...)
	e.buf = append(append(e.buf[:e.cursor], runes...), tail...)
	e.cursor += len(runes)

	if len(tail) == 0 {
		e.host.Echo(text)
		return
	}
	e.host.Echo(text + string(tail) + strings.Repeat("\b", len(tail)))
}

func (e *Editor) backspace() {
	if e.cursor == 0 {
		return
	}
	tail := string(e.buf[e.cursor:])
	e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
	e.cursor--

	if tail == "" {
		e.host.Echo(EraseLeft)
		return
	}
	n := len([]rune(tail))
	e.host.Echo("\b" + tail + " " + strings.Repeat("\b", n+1))
}

func (e *Editor) deleteForward() {
	if e.cursor >= len(e.buf) {
		return
	}
	e.buf = append(e.buf[:e.cursor], e.buf[e.cursor+1:]...)
	tail := string(e.buf[e.cursor:])
	n := len([]rune(tail))
	e.host.Echo(tail + " " + strings.Repeat("\b", n+1))
}

func (e *Editor) complete() {
	if e.cursor != len(e.buf) {
		return
	}
	suffix, ok := e.completer.Complete(string(e.buf))
	if !ok || suffix == "" {
		return
	}
	e.insert(suffix)
}

func (e *Editor) interrupt() {
	e.host.Echo(InterruptCh + CRLF)
	e.clearLine()
	e.history.Reset()
	e.host.Prompt()
}

func (e *Editor) submit() {
	e.host.Echo(CRLF)
	line := strings.TrimSpace(string(e.buf))
	e.clearLine()
	if line != "" {
		e.history.Add(line)
	}
	e.history.Reset()
	e.host.Submit(line)
}

// replace swaps the pending line for text and redraws it in place.
func (e *Editor) replace(text string) {
	e.buf = []rune(text)
	e.cursor = len(e.buf)
	e.host.Echo(ClearLine)
	e.host.Prompt()
	e.echo(text)
}

// redrawFrom reprints the buffer from index i and restores the cursor.
func (e *Editor) redrawFrom(i int) {
	if len(e.buf) == 0 {
		return
	}
	e.echo(string(e.buf[i:]) + left(len(e.buf)-e.cursor))
}

func (e *Editor) echo(text string) {
	if text != "" {
		e.host.Echo(text)
	}
}

func (e *Editor) clearLine() {
	e.buf = e.buf[:0]
	e.cursor = 0
}

func left(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("\x1b[%dD", n)
}

func right(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("\x1b[%dC", n)
}
