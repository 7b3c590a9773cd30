package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func kinds(keys []Key) []KeyKind {
	out := make([]KeyKind, len(keys))
	for i, k := range keys {
		out[i] = k.Kind
	}
	return out
}

func TestDecoderControls(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []KeyKind
	}{
		{name: "carriage return", raw: "\r", want: []KeyKind{KeyEnter}},
		{name: "line feed", raw: "\n", want: []KeyKind{KeyEnter}},
		{name: "crlf is one submit", raw: "\r\n", want: []KeyKind{KeyEnter}},
		{name: "two carriage returns", raw: "\r\r", want: []KeyKind{KeyEnter, KeyEnter}},
		{name: "lf lf", raw: "\n\n", want: []KeyKind{KeyEnter, KeyEnter}},
		{name: "delete byte", raw: "\x7f", want: []KeyKind{KeyBackspace}},
		{name: "backspace byte", raw: "\b", want: []KeyKind{KeyBackspace}},
		{name: "ctrl c", raw: "\x03", want: []KeyKind{KeyInterrupt}},
		{name: "tab", raw: "\t", want: []KeyKind{KeyTab}},
		{name: "ctrl l", raw: "\x0c", want: []KeyKind{KeyClear}},
		{name: "ctrl a and e", raw: "\x01\x05", want: []KeyKind{KeyHome, KeyEnd}},
		{name: "other controls ignored", raw: "\x00\x02\x07", want: []KeyKind{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder()
			assert.Equal(t, tt.want, kinds(d.Feed(tt.raw)))
			assert.Equal(t, Normal, d.State())
		})
	}
}

func TestDecoderEscapeSequences(t *testing.T) {
	tests := []struct {
		raw  string
		want []KeyKind
	}{
		{"\x1b[A", []KeyKind{KeyUp}},
		{"\x1b[B", []KeyKind{KeyDown}},
		{"\x1b[C", []KeyKind{KeyRight}},
		{"\x1b[D", []KeyKind{KeyLeft}},
		{"\x1b[H", []KeyKind{KeyHome}},
		{"\x1b[F", []KeyKind{KeyEnd}},
		{"\x1b[1~", []KeyKind{KeyHome}},
		{"\x1b[4~", []KeyKind{KeyEnd}},
		{"\x1b[3~", []KeyKind{KeyDelete}},
		{"\x1bOA", []KeyKind{KeyUp}},
		{"\x1bOB", []KeyKind{KeyDown}},
		{"\x1b[1;5C", []KeyKind{}},
		{"\x1b[2~", []KeyKind{}},
		{"\x1bx", []KeyKind{KeyRune}},
		{"\x1b[Aa", []KeyKind{KeyUp, KeyRune}},
	}

	for _, tt := range tests {
		t.Run(tt.raw[1:], func(t *testing.T) {
			d := NewDecoder()
			assert.Equal(t, tt.want, kinds(d.Feed(tt.raw)))
			assert.Equal(t, Normal, d.State())
		})
	}
}

func TestDecoderSplitSequence(t *testing.T) {
	d := NewDecoder()

	assert.Empty(t, d.Feed("\x1b"))
	assert.Equal(t, CollectingEscape, d.State())
	assert.Empty(t, d.Feed("["))
	assert.Equal(t, CollectingEscape, d.State())
	assert.Equal(t, []KeyKind{KeyUp}, kinds(d.Feed("A")))
	assert.Equal(t, Normal, d.State())
}

func TestDecoderSplitCRLF(t *testing.T) {
	d := NewDecoder()

	assert.Equal(t, []KeyKind{KeyEnter}, kinds(d.Feed("\r")))
	assert.Empty(t, d.Feed("\n"))
}

func TestDecoderAbandonedSequenceKeepsControl(t *testing.T) {
	d := NewDecoder()

	keys := d.Feed("\x1b[1\x03")
	assert.Equal(t, []KeyKind{KeyInterrupt}, kinds(keys))
	assert.Equal(t, Normal, d.State())
}

func TestDecoderLoneEscapeKeepsNextKey(t *testing.T) {
	d := NewDecoder()

	assert.Empty(t, d.Feed("\x1b"))
	keys := d.Feed("ls\r")
	assert.Equal(t, []KeyKind{KeyRune, KeyRune, KeyEnter}, kinds(keys))
	assert.Equal(t, 'l', keys[0].Rune)
	assert.Equal(t, Normal, d.State())
}

func TestDecoderOverlongSequenceDiscarded(t *testing.T) {
	d := NewDecoder()

	keys := d.Feed("\x1b[" + "1111111111111111111111" + "A")
	assert.Equal(t, Normal, d.State())
	// The digits after the cap are plain input; no cursor key is produced.
	for _, k := range keys {
		assert.NotEqual(t, KeyUp, k.Kind)
	}
}

func TestDecoderRunes(t *testing.T) {
	d := NewDecoder()

	keys := d.Feed("aé世")
	assert.Equal(t, []Key{
		{Kind: KeyRune, Rune: 'a'},
		{Kind: KeyRune, Rune: 'é'},
		{Kind: KeyRune, Rune: '世'},
	}, keys)
}

func TestDecoderSplitMultibyteRune(t *testing.T) {
	d := NewDecoder()
	raw := "世"

	assert.Empty(t, d.Feed(raw[:1]))
	assert.Empty(t, d.Feed(raw[1:2]))
	assert.Equal(t, []Key{{Kind: KeyRune, Rune: '世'}}, d.Feed(raw[2:]))
}

func TestDecoderInvalidUTF8Dropped(t *testing.T) {
	d := NewDecoder()
	assert.Equal(t, []Key{{Kind: KeyRune, Rune: 'a'}}, d.Feed("\xffa"))
}

func TestKeyKindString(t *testing.T) {
	assert.Equal(t, "up", KeyUp.String())
	assert.Equal(t, "unknown", KeyKind(99).String())
}
