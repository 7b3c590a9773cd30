package ws

import (
	"time"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/opsconsole/internal/console"
)

// Inbound message types.
const (
	TypeInput    = "input"
	TypeCreate   = "create"
	TypeActivate = "activate"
	TypeClose    = "close"
	TypeList     = "list"
	TypePing     = "ping"
)

// Outbound message types.
const (
	TypeOutput   = "output"
	TypeClear    = "clear"
	TypeAttach   = "attach"
	TypeSessions = "sessions"
	TypeError    = "error"
	TypePong     = "pong"
)

// Request is a client frame.
type Request struct {
	Type string `json:"type"`
	// Session targets a specific session; empty means the active one.
	Session string `json:"session,omitempty"`
	Data    string `json:"data,omitempty"`
}

// Frame is a server frame.
type Frame struct {
	Type      string                `json:"type"`
	Session   string                `json:"session,omitempty"`
	Data      string                `json:"data,omitempty"`
	Sessions  []console.SessionInfo `json:"sessions,omitempty"`
	Message   string                `json:"message,omitempty"`
	Timestamp int64                 `json:"timestamp"`
}

func encode(f Frame) ([]byte, error) {
	if f.Timestamp == 0 {
		f.Timestamp = time.Now().Unix()
	}
	return sonic.Marshal(f)
}

func decode(data []byte) (Request, error) {
	var req Request
	err := sonic.Unmarshal(data, &req)
	return req, err
}
