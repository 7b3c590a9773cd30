// Package shell interprets submitted console lines.
//
// A line is split on whitespace; its first word, lower-cased, selects a
// Command from the Table. Built-ins run synchronously against the session's
// virtual.Environment. Tools print a banner when called bare and otherwise
// return a Run that the caller schedules: after Run.Delay the Simulator
// supplies the canned response from the embedded catalog.yaml.
//
// User mistakes never surface as Go errors. They become red output lines
// and set Result.Failed.
package shell
