// Package style describes terminal output as colored spans so the core never
// builds escape sequences by hand. Adapters pick the encoding: ANSI for
// xterm-compatible surfaces, plain text for transcripts and tests.
package style

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// Color is one of the eight basic terminal colors, or Default.
type Color int

const (
	Default Color = iota
	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

var colorNames = map[Color]string{
	Default: "default",
	Black:   "black",
	Red:     "red",
	Green:   "green",
	Yellow:  "yellow",
	Blue:    "blue",
	Magenta: "magenta",
	Cyan:    "cyan",
	White:   "white",
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("color(%d)", int(c))
}

// ParseColor maps a color name to a Color. The empty string is Default.
func ParseColor(name string) (Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Default, nil
	}
	for c, n := range colorNames {
		if n == name {
			return c, nil
		}
	}
	return Default, fmt.Errorf("unknown color %q", name)
}

func (c Color) termenv() termenv.Color {
	switch c {
	case Black:
		return termenv.ANSIBlack
	case Red:
		return termenv.ANSIRed
	case Green:
		return termenv.ANSIGreen
	case Yellow:
		return termenv.ANSIYellow
	case Blue:
		return termenv.ANSIBlue
	case Magenta:
		return termenv.ANSIMagenta
	case Cyan:
		return termenv.ANSICyan
	case White:
		return termenv.ANSIWhite
	default:
		return nil
	}
}

// Span is a run of text sharing one style.
type Span struct {
	Text  string
	Color Color
	Bold  bool
}

// Text is an ordered sequence of spans; one Text is usually one output line
// without its terminator.
type Text []Span

// Plain returns unstyled text.
func Plain(s string) Text {
	return Text{{Text: s}}
}

// Paint returns text in color c.
func Paint(c Color, s string) Text {
	return Text{{Text: s, Color: c}}
}

// Bold returns bold text in color c.
func Bold(c Color, s string) Text {
	return Text{{Text: s, Color: c, Bold: true}}
}

// Line concatenates spans into one Text.
func Line(spans ...Span) Text {
	return Text(spans)
}

// Span returns a span of s in color c.
func (c Color) Span(s string) Span {
	return Span{Text: s, Color: c}
}

// Append returns t followed by other.
func (t Text) Append(other Text) Text {
	out := make(Text, 0, len(t)+len(other))
	out = append(out, t...)
	return append(out, other...)
}

// String returns the text without styling.
func (t Text) String() string {
	var sb strings.Builder
	for _, s := range t {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// ANSI encodes the text with SGR escape sequences. Unstyled spans are
// written verbatim, so control sequences embedded in them pass through.
func (t Text) ANSI() string {
	var sb strings.Builder
	for _, s := range t {
		sb.WriteString(s.ANSI())
	}
	return sb.String()
}

// ANSI encodes a single span.
func (s Span) ANSI() string {
	if s.Text == "" {
		return ""
	}
	st := termenv.ANSI.String(s.Text)
	if c := s.Color.termenv(); c != nil {
		st = st.Foreground(c)
	}
	if s.Bold {
		st = st.Bold()
	}
	return st.String()
}
