package ws

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/opsconsole/internal/console"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Console is the part of the session manager the stream drives.
type Console interface {
	RouteInput(raw string) bool
	SendInput(id, raw string) error
	CreateSession() (console.SessionInfo, error)
	ActivateSession(id string) error
	CloseSession(id string) error
	Sessions() []console.SessionInfo
	Active() (console.SessionInfo, bool)
}

// Transcripts gives access to session scrollback.
type Transcripts interface {
	Transcript(id string) ([]byte, bool)
}

// Handler manages WebSocket connections
type Handler struct {
	hub      *Hub
	console  Console
	surfaces Transcripts
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, c Console, surfaces Transcripts) *Handler {
	return &Handler{
		hub:      hub,
		console:  c,
		surfaces: surfaces,
	}
}

// HandleConnection upgrades the request and serves one client until it
// disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := h.hub.register(conn)
	defer h.hub.unregister(cl)
	go cl.writePump()

	h.greet(cl)
	h.readLoop(cl)
}

// greet sends the session list and the active session's scrollback.
func (h *Handler) greet(cl *client) {
	h.reply(cl, Frame{Type: TypeSessions, Sessions: h.console.Sessions()})

	active, ok := h.console.Active()
	if !ok {
		return
	}
	replay, _ := h.surfaces.Transcript(active.ID)
	h.reply(cl, Frame{Type: TypeAttach, Session: active.ID, Data: string(replay)})
}

func (h *Handler) readLoop(cl *client) {
	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				cl.log.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		req, err := decode(data)
		if err != nil {
			h.replyError(cl, "malformed message")
			continue
		}
		h.hub.metrics.RecordWSMessage("in", req.Type)
		h.dispatch(cl, req)
	}
}

func (h *Handler) dispatch(cl *client, req Request) {
	switch req.Type {
	case TypeInput:
		if req.Session != "" {
			h.check(cl, h.console.SendInput(req.Session, req.Data))
			return
		}
		if !h.console.RouteInput(req.Data) {
			h.replyError(cl, "no active session")
		}
	case TypeCreate:
		_, err := h.console.CreateSession()
		h.check(cl, err)
	case TypeActivate:
		h.check(cl, h.console.ActivateSession(req.Session))
	case TypeClose:
		h.check(cl, h.console.CloseSession(req.Session))
	case TypeList:
		h.reply(cl, Frame{Type: TypeSessions, Sessions: h.console.Sessions()})
	case TypePing:
		h.reply(cl, Frame{Type: TypePong})
	default:
		h.replyError(cl, "unknown message type")
	}
}

func (h *Handler) check(cl *client, err error) {
	switch {
	case err == nil:
	case errors.Is(err, console.ErrNotFound):
		h.replyError(cl, err.Error())
	case errors.Is(err, console.ErrClosed):
		h.replyError(cl, "console is shutting down")
	default:
		cl.log.Error("console request failed", zap.Error(err))
		h.replyError(cl, "internal error")
	}
}

func (h *Handler) reply(cl *client, f Frame) {
	msg, err := encode(f)
	if err != nil {
		cl.log.Error("encode frame", zap.Error(err))
		return
	}
	if cl.enqueue(msg) {
		h.hub.metrics.RecordWSMessage("out", f.Type)
	}
}

func (h *Handler) replyError(cl *client, msg string) {
	h.reply(cl, Frame{Type: TypeError, Message: msg})
}
