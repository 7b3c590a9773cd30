package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/GriffinCanCode/opsconsole/internal/console"
	"github.com/GriffinCanCode/opsconsole/internal/display"
	"github.com/GriffinCanCode/opsconsole/internal/infrastructure/monitoring"
)

type fixture struct {
	hub *Hub
	mgr *console.Manager
	url string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zaptest.NewLogger(t), monitoring.NewMetrics())
	surfaces := display.NewRegistry(hub, display.WithEncoding(display.EncodePlain))
	mgr := console.NewManager(surfaces.Factory(),
		console.WithWelcome(false),
		console.WithObserver(hub.Observe))
	t.Cleanup(mgr.Shutdown)

	router := gin.New()
	router.GET("/stream", NewHandler(hub, mgr, surfaces).HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &fixture{
		hub: hub,
		mgr: mgr,
		url: "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream",
	}
}

func (f *fixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(f.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, req Request) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(req))
}

func read(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

// readUntil reads frames until one satisfies match.
func readUntil(t *testing.T, conn *websocket.Conn, match func(Frame) bool) Frame {
	t.Helper()
	for i := 0; i < 100; i++ {
		if f := read(t, conn); match(f) {
			return f
		}
	}
	t.Fatal("no matching frame")
	return Frame{}
}

func TestGreeting(t *testing.T) {
	f := newFixture(t)
	active, ok := f.mgr.Active()
	require.True(t, ok)

	conn := f.dial(t)

	first := read(t, conn)
	assert.Equal(t, TypeSessions, first.Type)
	require.Len(t, first.Sessions, 1)
	assert.Equal(t, active.ID, first.Sessions[0].ID)

	second := read(t, conn)
	assert.Equal(t, TypeAttach, second.Type)
	assert.Equal(t, active.ID, second.Session)
	assert.Equal(t, "devops-user@devops-ide:~$ ", second.Data)
}

func TestInputProducesOutput(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)
	read(t, conn)
	read(t, conn)

	send(t, conn, Request{Type: TypeInput, Data: "pwd\r"})

	var out strings.Builder
	readUntil(t, conn, func(fr Frame) bool {
		if fr.Type == TypeOutput {
			out.WriteString(fr.Data)
		}
		return strings.Contains(out.String(), "/home/user\r\n")
	})
}

func TestPing(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)
	read(t, conn)
	read(t, conn)

	send(t, conn, Request{Type: TypePing})
	assert.Equal(t, TypePong, read(t, conn).Type)
}

func TestUnknownType(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)
	read(t, conn)
	read(t, conn)

	send(t, conn, Request{Type: "bogus"})
	fr := read(t, conn)
	assert.Equal(t, TypeError, fr.Type)
	assert.Equal(t, "unknown message type", fr.Message)
}

func TestMalformedFrame(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)
	read(t, conn)
	read(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	fr := read(t, conn)
	assert.Equal(t, TypeError, fr.Type)
	assert.Equal(t, "malformed message", fr.Message)
}

func TestActivateUnknownSession(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)
	read(t, conn)
	read(t, conn)

	send(t, conn, Request{Type: TypeActivate, Session: "sess_nope"})
	fr := read(t, conn)
	assert.Equal(t, TypeError, fr.Type)
	assert.Contains(t, fr.Message, "session not found")
}

func TestCreateBroadcastsToAllClients(t *testing.T) {
	f := newFixture(t)
	a := f.dial(t)
	b := f.dial(t)
	for _, conn := range []*websocket.Conn{a, b} {
		read(t, conn)
		read(t, conn)
	}
	require.Eventually(t, func() bool { return f.hub.Len() == 2 }, time.Second, 5*time.Millisecond)

	send(t, a, Request{Type: TypeCreate})

	for _, conn := range []*websocket.Conn{a, b} {
		fr := readUntil(t, conn, func(fr Frame) bool { return fr.Type == TypeSessions })
		require.Len(t, fr.Sessions, 2)
		assert.Equal(t, "Terminal 2", fr.Sessions[1].Name)
		assert.True(t, fr.Sessions[1].Active)
	}
}

func TestCloseSessionViaStream(t *testing.T) {
	f := newFixture(t)
	active, _ := f.mgr.Active()
	conn := f.dial(t)
	read(t, conn)
	read(t, conn)

	send(t, conn, Request{Type: TypeClose, Session: active.ID})
	fr := readUntil(t, conn, func(fr Frame) bool { return fr.Type == TypeSessions })
	assert.Empty(t, fr.Sessions)

	send(t, conn, Request{Type: TypeInput, Data: "ls\r"})
	fr = read(t, conn)
	assert.Equal(t, TypeError, fr.Type)
	assert.Equal(t, "no active session", fr.Message)
}

func TestDisconnectUnregisters(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t)
	read(t, conn)
	require.Equal(t, 1, f.hub.Len())

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return f.hub.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
}
