// Package terminal exposes the console as a tool-based service.
//
// Tools operate on console sessions by id. Calls that omit session_id act
// on the session named in the execution context, or on the active one.
//
// Tools:
//   - terminal.create_session: Open a new session and activate it
//   - terminal.list_sessions: List all sessions
//   - terminal.get_session: Describe one session
//   - terminal.activate: Switch the active session
//   - terminal.write: Send raw keystrokes
//   - terminal.execute: Submit a command line and return its immediate output
//   - terminal.read: Read the scrollback (base64, or plain text)
//   - terminal.kill: Close a session
//
// Example Usage:
//
//	provider := terminal.NewProvider(mgr, surfaces)
//	registry.Register(provider)
//	result, err := registry.Execute(ctx, "terminal.execute",
//		map[string]interface{}{"command": "kubectl get pods"}, nil)
package terminal
