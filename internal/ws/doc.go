// Package ws streams console sessions to browsers over WebSocket.
//
// The Hub is the display sink of every session surface: output, clear and
// attach events of the attached session are broadcast to all clients.
// Clients drive the console with JSON frames.
//
// Message Types (Client → Server):
//   - input: raw keystrokes for the active session, or for "session"
//   - create: open a new session
//   - activate: switch to "session"
//   - close: dispose "session"
//   - list: request the session list
//   - ping: keep-alive ping
//
// Message Types (Server → Client):
//   - output: rendered bytes of the attached session
//   - clear: erase the viewport
//   - attach: viewport switched; "data" holds the scrollback replay
//   - sessions: current session list
//   - error: request failed
//   - pong: keep-alive reply
//
// Example Usage:
//
//	hub := ws.NewHub(log, metrics)
//	surfaces := display.NewRegistry(hub)
//	mgr := console.NewManager(surfaces.Factory(), console.WithObserver(hub.Observe))
//	router.GET("/stream", ws.NewHandler(hub, mgr, surfaces).HandleConnection)
package ws
