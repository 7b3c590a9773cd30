package input

import (
	"unicode"
	"unicode/utf8"
)

// KeyKind identifies a decoded edit operation.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyTab
	KeyInterrupt
	KeyClear
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
)

var keyNames = [...]string{
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyTab:       "tab",
	KeyInterrupt: "interrupt",
	KeyClear:     "clear",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
}

func (k KeyKind) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// Key is one decoded input event. Rune is set only for KeyRune.
type Key struct {
	Kind KeyKind
	Rune rune
}

// State is the decoder's position in an escape sequence.
type State int

const (
	Normal State = iota
	CollectingEscape
)

const maxSequence = 16

// Control bytes
const (
	ctrlA     = 0x01
	ctrlC     = 0x03
	ctrlE     = 0x05
	backspace = 0x08
	tab       = 0x09
	lineFeed  = 0x0A
	ctrlL     = 0x0C
	carriage  = 0x0D
	escape    = 0x1B
	del       = 0x7F
)

// sequences maps the bytes following ESC to a key.
var sequences = map[string]KeyKind{
	"[A":  KeyUp,
	"[B":  KeyDown,
	"[C":  KeyRight,
	"[D":  KeyLeft,
	"[H":  KeyHome,
	"[F":  KeyEnd,
	"[1~": KeyHome,
	"[7~": KeyHome,
	"[4~": KeyEnd,
	"[8~": KeyEnd,
	"[3~": KeyDelete,
	"OA":  KeyUp,
	"OB":  KeyDown,
	"OC":  KeyRight,
	"OD":  KeyLeft,
	"OH":  KeyHome,
	"OF":  KeyEnd,
}

// Decoder turns a raw input stream into keys. Input may be split at any
// byte boundary across calls to Feed, including inside an escape sequence
// or a multi-byte character.
type Decoder struct {
	state   State
	seq     []byte
	partial []byte
	afterCR bool
}

// NewDecoder returns a decoder in the Normal state.
func NewDecoder() *Decoder {
	return &Decoder{
		seq: make([]byte, 0, maxSequence),
	}
}

// State reports whether the decoder is inside an escape sequence.
func (d *Decoder) State() State {
	return d.state
}

// Feed decodes raw and returns the completed keys in order.
func (d *Decoder) Feed(raw string) []Key {
	data := []byte(raw)
	if len(d.partial) > 0 {
		data = append(d.partial, data...)
		d.partial = nil
	}

	var keys []Key
	for i := 0; i < len(data); {
		if d.state == CollectingEscape {
			if data[i] >= utf8.RuneSelf {
				d.reset()
				continue
			}
			keys = d.escapeByte(data[i], keys)
			i++
			continue
		}

		b := data[i]
		if b >= utf8.RuneSelf {
			if !utf8.FullRune(data[i:]) {
				d.partial = append([]byte(nil), data[i:]...)
				break
			}
			r, size := utf8.DecodeRune(data[i:])
			i += size
			d.afterCR = false
			if r != utf8.RuneError && unicode.IsPrint(r) {
				keys = append(keys, Key{Kind: KeyRune, Rune: r})
			}
			continue
		}

		keys = d.normalByte(b, keys)
		i++
	}
	return keys
}

func (d *Decoder) normalByte(b byte, keys []Key) []Key {
	wasCR := d.afterCR
	d.afterCR = false

	switch b {
	case escape:
		d.state = CollectingEscape
		d.seq = d.seq[:0]
	case carriage:
		d.afterCR = true
		keys = append(keys, Key{Kind: KeyEnter})
	case lineFeed:
		// CR LF is one submit
		if !wasCR {
			keys = append(keys, Key{Kind: KeyEnter})
		}
	case del, backspace:
		keys = append(keys, Key{Kind: KeyBackspace})
	case ctrlC:
		keys = append(keys, Key{Kind: KeyInterrupt})
	case tab:
		keys = append(keys, Key{Kind: KeyTab})
	case ctrlL:
		keys = append(keys, Key{Kind: KeyClear})
	case ctrlA:
		keys = append(keys, Key{Kind: KeyHome})
	case ctrlE:
		keys = append(keys, Key{Kind: KeyEnd})
	default:
		if b >= 0x20 && b < del {
			keys = append(keys, Key{Kind: KeyRune, Rune: rune(b)})
		}
	}
	return keys
}

func (d *Decoder) escapeByte(b byte, keys []Key) []Key {
	if len(d.seq) == 0 {
		switch b {
		case '[', 'O':
			d.seq = append(d.seq, b)
		case escape:
			// ESC ESC restarts the sequence
		default:
			// A lone ESC is dropped; b is ordinary input
			d.state = Normal
			keys = d.normalByte(b, keys)
		}
		return keys
	}

	switch {
	case b >= 0x40 && b <= 0x7E:
		d.seq = append(d.seq, b)
		if kind, ok := sequences[string(d.seq)]; ok {
			keys = append(keys, Key{Kind: kind})
		}
		d.reset()
	case d.seq[0] == '[' && b >= 0x20 && b <= 0x3F:
		d.seq = append(d.seq, b)
		if len(d.seq) >= maxSequence {
			d.reset()
		}
	default:
		// Abandon the sequence and treat b as ordinary input
		d.reset()
		keys = d.normalByte(b, keys)
	}
	return keys
}

func (d *Decoder) reset() {
	d.state = Normal
	d.seq = d.seq[:0]
}
