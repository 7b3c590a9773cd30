// Package input turns raw keystrokes into edits of a pending line.
//
// The Decoder is a two-state machine (Normal, CollectingEscape) that
// yields Keys; the Editor applies them to a rune buffer, echoes the visual
// effect through its Host, and hands submitted lines back to the Host.
// History and Completer are the editor's per-session collaborators.
package input
