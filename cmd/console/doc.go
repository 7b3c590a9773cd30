// Command console runs the ops console in the local terminal.
//
// Standard input is switched to raw mode and every keystroke goes to the
// active session. A few keys are reserved for session management:
//
//	Ctrl+T  open a new session
//	Ctrl+N  switch to the next session
//	Ctrl+W  close the active session
//	Ctrl+Q  quit
//
// When stdin is not a terminal the input is fed through as-is, which
// makes it easy to script:
//
//	printf 'ls\nkubectl get pods\n' | console -latency 100ms
package main
