package console

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/opsconsole/internal/console/shell"
	"github.com/GriffinCanCode/opsconsole/internal/console/style"
)

// recorder is a Display that keeps everything it was given.
type recorder struct {
	mu       sync.Mutex
	info     SessionInfo
	out      strings.Builder
	clears   int
	attaches int
	detaches int
	closes   int
	attached bool
}

func (r *recorder) Render(text style.Text) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out.WriteString(text.String())
}

func (r *recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
	r.out.Reset()
}

func (r *recorder) Attach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attaches++
	r.attached = true
}

func (r *recorder) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detaches++
	r.attached = false
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closes++
	return nil
}

func (r *recorder) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.out.String()
}

func (r *recorder) Closes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closes
}

func (r *recorder) Attached() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attached
}

// recorders hands out one recorder per session.
type recorders struct {
	mu   sync.Mutex
	byID map[string]*recorder
	all  []*recorder
}

func newRecorders() *recorders {
	return &recorders{byID: make(map[string]*recorder)}
}

func (rs *recorders) factory(info SessionInfo) Display {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	r := &recorder{info: info}
	rs.byID[info.ID] = r
	rs.all = append(rs.all, r)
	return r
}

func (rs *recorders) get(t *testing.T, id string) *recorder {
	t.Helper()
	rs.mu.Lock()
	defer rs.mu.Unlock()
	r, ok := rs.byID[id]
	require.True(t, ok, "no display for %s", id)
	return r
}

const testCatalog = `
tools:
  - name: fast
    description: Fast tool
    latency: 20ms
    banner:
      - fast banner
  - name: slow
    description: Slow tool
    latency: 150ms
    banner:
      - slow banner
responses:
  - match: fast ping
    lines:
      - text: pong
        color: green
`

func newTestManager(t *testing.T, opts ...Option) (*Manager, *recorders) {
	t.Helper()
	catalog, err := shell.LoadCatalog([]byte(testCatalog))
	require.NoError(t, err)

	rs := newRecorders()
	opts = append([]Option{WithInterpreter(shell.NewInterpreter(shell.WithCatalog(catalog)))}, opts...)
	m := NewManager(rs.factory, opts...)
	t.Cleanup(m.Shutdown)
	return m, rs
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}
