package display

import "sync"

// Scrollback is a thread-safe circular buffer of rendered output. Once
// full, the oldest bytes are overwritten.
type Scrollback struct {
	data []byte
	size int
	head int
	tail int
	full bool
	mu   sync.RWMutex
}

// NewScrollback creates a buffer holding at most size bytes.
func NewScrollback(size int) *Scrollback {
	if size <= 0 {
		size = DefaultScrollback
	}
	return &Scrollback{
		data: make([]byte, size),
		size: size,
	}
}

// Write appends p, discarding the oldest bytes on overflow.
func (b *Scrollback) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range p {
		b.data[b.tail] = c
		b.tail = (b.tail + 1) % b.size
		if b.full {
			b.head = b.tail
		} else if b.tail == b.head {
			b.full = true
		}
	}
	return len(p), nil
}

// Len returns the number of buffered bytes.
func (b *Scrollback) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.length()
}

func (b *Scrollback) length() int {
	switch {
	case b.full:
		return b.size
	case b.tail >= b.head:
		return b.tail - b.head
	default:
		return b.size - b.head + b.tail
	}
}

// Snapshot returns a copy of the buffered bytes, oldest first.
func (b *Scrollback) Snapshot() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot()
}

func (b *Scrollback) snapshot() []byte {
	n := b.length()
	result := make([]byte, n)
	if n == 0 {
		return result
	}
	if b.head < b.tail {
		copy(result, b.data[b.head:b.tail])
	} else {
		// wrapped
		first := copy(result, b.data[b.head:])
		copy(result[first:], b.data[:b.tail])
	}
	return result
}

// Reset discards everything.
func (b *Scrollback) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head, b.tail, b.full = 0, 0, false
}
