package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory()

	_, ok := h.Prev()
	assert.False(t, ok)
	_, ok = h.Next()
	assert.False(t, ok)
	assert.Equal(t, 0, h.Cursor())
	assert.False(t, h.Browsing())
}

func TestHistoryNavigation(t *testing.T) {
	h := NewHistory()
	h.Add("ls")
	h.Add("pwd")
	h.Add("ps aux")
	assert.Equal(t, 3, h.Cursor())

	// down while not browsing is a no-op
	_, ok := h.Next()
	assert.False(t, ok)
	assert.Equal(t, 3, h.Cursor())

	line, ok := h.Prev()
	assert.True(t, ok)
	assert.Equal(t, "ps aux", line)

	line, _ = h.Prev()
	assert.Equal(t, "pwd", line)
	line, _ = h.Prev()
	assert.Equal(t, "ls", line)
	assert.Equal(t, 0, h.Cursor())

	// up at the first entry is a no-op
	_, ok = h.Prev()
	assert.False(t, ok)
	assert.Equal(t, 0, h.Cursor())

	line, ok = h.Next()
	assert.True(t, ok)
	assert.Equal(t, "pwd", line)
	line, _ = h.Next()
	assert.Equal(t, "ps aux", line)

	// down from the last entry returns to a fresh line
	line, ok = h.Next()
	assert.True(t, ok)
	assert.Equal(t, "", line)
	assert.Equal(t, 3, h.Cursor())
	assert.False(t, h.Browsing())
}

func TestHistoryCursorStaysInBounds(t *testing.T) {
	h := NewHistory()
	ops := []func(){
		func() { h.Prev() },
		func() { h.Next() },
		func() { h.Add("x") },
		func() { h.Prev() },
		func() { h.Prev() },
		func() { h.Next() },
		func() { h.Next() },
		func() { h.Add("y") },
		func() { h.Prev() },
		func() { h.Reset() },
	}
	for i, op := range ops {
		op()
		assert.GreaterOrEqual(t, h.Cursor(), 0, "step %d", i)
		assert.LessOrEqual(t, h.Cursor(), h.Len(), "step %d", i)
	}
}

func TestHistoryEntriesIsCopy(t *testing.T) {
	h := NewHistory()
	h.Add("a")

	entries := h.Entries()
	entries[0] = "mutated"

	assert.Equal(t, []string{"a"}, h.Entries())
}
