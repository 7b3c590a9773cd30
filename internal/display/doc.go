// Package display adapts console sessions to output surfaces.
//
// Each session gets a Surface that keeps a scrollback buffer and forwards
// rendered bytes to a Sink while it is attached. Re-attaching replays the
// scrollback, which is how output produced by an inactive session becomes
// visible. Sinks include a VT100 writer for local terminals; the
// WebSocket hub is another.
package display
