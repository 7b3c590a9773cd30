package display

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/opsconsole/internal/console"
	"github.com/GriffinCanCode/opsconsole/internal/console/style"
)

type call struct {
	kind string
	id   string
	data string
}

type recordingSink struct {
	mu    sync.Mutex
	calls []call
}

func (r *recordingSink) Output(id string, data []byte) { r.add(call{"output", id, string(data)}) }
func (r *recordingSink) Clear(id string)               { r.add(call{"clear", id, ""}) }
func (r *recordingSink) Attach(id string, replay []byte) {
	r.add(call{"attach", id, string(replay)})
}

func (r *recordingSink) add(c call) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *recordingSink) Calls() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func TestSurfaceForwardsOnlyWhileAttached(t *testing.T) {
	sink := &recordingSink{}
	s := NewSurface("sess_1", "Terminal 1", sink, EncodePlain, 0)

	s.Render(style.Plain("hidden "))
	assert.Empty(t, sink.Calls())

	s.Attach()
	s.Render(style.Plain("shown"))
	s.Detach()
	s.Render(style.Plain(" later"))

	assert.Equal(t, []call{
		{"attach", "sess_1", "hidden "},
		{"output", "sess_1", "shown"},
	}, sink.Calls())
	assert.Equal(t, "hidden shown later", string(s.Transcript()))
}

func TestSurfaceReplaysOnReattach(t *testing.T) {
	sink := &recordingSink{}
	s := NewSurface("sess_1", "Terminal 1", sink, EncodePlain, 0)

	s.Attach()
	s.Render(style.Plain("one "))
	s.Detach()
	s.Render(style.Plain("two"))
	s.Attach()

	calls := sink.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, call{"attach", "sess_1", "one two"}, calls[len(calls)-1])
}

func TestSurfaceClear(t *testing.T) {
	sink := &recordingSink{}
	s := NewSurface("sess_1", "Terminal 1", sink, EncodePlain, 0)
	s.Attach()
	s.Render(style.Plain("junk"))

	s.Clear()

	assert.Empty(t, s.Transcript())
	calls := sink.Calls()
	assert.Equal(t, call{"clear", "sess_1", ""}, calls[len(calls)-1])
}

func TestSurfaceANSIEncoding(t *testing.T) {
	s := NewSurface("sess_1", "Terminal 1", nil, EncodeANSI, 0)
	s.Render(style.Paint(style.Green, "ok"))
	assert.Equal(t, "\x1b[32mok\x1b[0m", string(s.Transcript()))
}

func TestSurfaceCloseOnce(t *testing.T) {
	sink := &recordingSink{}
	s := NewSurface("sess_1", "Terminal 1", sink, EncodePlain, 0)
	s.Attach()

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Close(), ErrSurfaceClosed)
	assert.True(t, s.Closed())
	assert.False(t, s.Attached())

	before := len(sink.Calls())
	s.Render(style.Plain("after close"))
	s.Attach()
	assert.Len(t, sink.Calls(), before)
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterSink(&buf)

	w.Output("a", []byte("hi"))
	w.Clear("a")
	w.Attach("b", []byte("replay"))

	assert.Equal(t, "hi"+ClearScreen+ClearScreen+"replay", buf.String())
}

func TestSinksFanOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	ss := Sinks{a, b}
	ss.Output("x", []byte("1"))
	ss.Clear("x")
	ss.Attach("x", nil)

	assert.Len(t, a.Calls(), 3)
	assert.Equal(t, a.Calls(), b.Calls())
}

func TestRegistryTracksLiveSurfaces(t *testing.T) {
	sink := &recordingSink{}
	reg := NewRegistry(sink, WithEncoding(EncodePlain), WithScrollback(64))
	factory := reg.Factory()

	d := factory(console.SessionInfo{ID: "sess_1", Name: "Terminal 1"})
	_ = factory(console.SessionInfo{ID: "sess_2", Name: "Terminal 2"})
	assert.Equal(t, 2, reg.Len())

	s, ok := reg.Get("sess_1")
	require.True(t, ok)
	assert.Equal(t, "Terminal 1", s.Name())
	assert.Equal(t, 64, s.buf.size)

	require.NoError(t, d.Close())
	_, ok = reg.Get("sess_1")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryWithManager(t *testing.T) {
	sink := &recordingSink{}
	reg := NewRegistry(sink, WithEncoding(EncodePlain))
	m := console.NewManager(reg.Factory(), console.WithWelcome(false))
	defer m.Shutdown()

	first, ok := m.Active()
	require.True(t, ok)
	m.RouteInput("echo hello\r")

	second, err := m.CreateSession()
	require.NoError(t, err)
	require.NoError(t, m.SendInput(first.ID, "pwd\r"))
	require.NoError(t, m.ActivateSession(first.ID))

	calls := sink.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, "attach", last.kind)
	assert.Equal(t, first.ID, last.id)
	assert.Contains(t, last.data, "hello\r\n")
	assert.True(t, strings.HasSuffix(last.data, "/home/user\r\ndevops-user@devops-ide:~$ "))

	for _, c := range calls {
		if c.kind == "output" && strings.Contains(c.data, "/home/user") {
			t.Fatalf("detached session forwarded output: %q", c.data)
		}
	}

	require.NoError(t, m.CloseSession(second.ID))
	assert.Equal(t, 1, reg.Len())
}
