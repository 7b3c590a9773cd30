package input

// History is a session's submitted lines plus a browse cursor. The cursor
// is always in [0, Len()]; Len() means a fresh line is being edited.
type History struct {
	entries []string
	cursor  int
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Add appends line and stops browsing.
func (h *History) Add(line string) {
	h.entries = append(h.entries, line)
	h.cursor = len(h.entries)
}

// Reset stops browsing.
func (h *History) Reset() {
	h.cursor = len(h.entries)
}

// Prev moves to the previous entry. At the first entry it reports false
// and leaves the cursor alone.
func (h *History) Prev() (string, bool) {
	if h.cursor == 0 {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Next moves to the following entry. From the last entry it moves past
// the end and returns "". When not browsing it reports false.
func (h *History) Next() (string, bool) {
	switch {
	case h.cursor >= len(h.entries):
		return "", false
	case h.cursor == len(h.entries)-1:
		h.cursor = len(h.entries)
		return "", true
	default:
		h.cursor++
		return h.entries[h.cursor], true
	}
}

// Cursor returns the browse position.
func (h *History) Cursor() int {
	return h.cursor
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Browsing reports whether the cursor is on an entry.
func (h *History) Browsing() bool {
	return h.cursor < len(h.entries)
}

// Entries returns a copy of the entries in submission order.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
