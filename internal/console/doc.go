// Package console is the session manager of the ops console.
//
// A Manager owns a set of terminal sessions. Each session carries its own
// virtual environment, line editor and history, and writes to exactly one
// Display. Input is routed to the active session; inactive sessions keep
// receiving output from their pending tool runs.
//
// Every state change runs on a single Loop goroutine. Public Manager
// methods post a closure and wait for it, and simulated tool completions
// are timers that post back onto the same loop, so completions fire in
// the order their delays elapse.
package console
