package virtual

import (
	"sort"
	"strings"
)

// Process is one row of the static mock process table.
type Process struct {
	PID     int
	Command string
	CPU     float64
	Memory  float64
	Time    string
}

// DefaultProcesses returns the process table every session starts with.
func DefaultProcesses() []Process {
	return []Process{
		{PID: 1, Command: "systemd", CPU: 0.1, Memory: 1.2, Time: "00:01:23"},
		{PID: 123, Command: "bash", CPU: 0.0, Memory: 0.8, Time: "00:00:05"},
		{PID: 456, Command: "node", CPU: 2.1, Memory: 45.6, Time: "00:15:32"},
		{PID: 789, Command: "docker", CPU: 1.5, Memory: 12.3, Time: "00:08:45"},
		{PID: 1011, Command: "kubectl", CPU: 0.3, Memory: 8.9, Time: "00:02:15"},
	}
}

// Environment is the shell state owned by one session.
type Environment struct {
	Cwd       string
	Hostname  string
	Vars      map[string]string
	Processes []Process
}

// NewEnvironment returns the default state for a fresh session.
func NewEnvironment(user, hostname, home string) *Environment {
	return &Environment{
		Cwd:      home,
		Hostname: hostname,
		Vars: map[string]string{
			"USER":  user,
			"HOME":  home,
			"PATH":  "/usr/local/bin:/usr/bin:/bin:/usr/sbin:/sbin",
			"SHELL": "/bin/bash",
			"TERM":  "xterm-256color",
		},
		Processes: DefaultProcesses(),
	}
}

// User returns $USER.
func (e *Environment) User() string {
	return e.Vars["USER"]
}

// Home returns $HOME, or "/" when it has been unset.
func (e *Environment) Home() string {
	if home := e.Vars["HOME"]; home != "" {
		return home
	}
	return "/"
}

// Chdir moves the working directory. It never fails.
func (e *Environment) Chdir(arg string) {
	e.Cwd = Resolve(e.Cwd, e.Home(), arg)
}

// Abs resolves arg against the working directory without moving.
func (e *Environment) Abs(arg string) string {
	return Resolve(e.Cwd, e.Home(), arg)
}

// DisplayPath returns the working directory with the home prefix shown as ~.
func (e *Environment) DisplayPath() string {
	return Abbreviate(e.Cwd, e.Home())
}

// Set assigns a variable.
func (e *Environment) Set(key, value string) {
	e.Vars[key] = value
}

// Unset removes a variable.
func (e *Environment) Unset(key string) {
	delete(e.Vars, key)
}

// Sorted returns KEY=value lines ordered by key.
func (e *Environment) Sorted() []string {
	keys := make([]string, 0, len(e.Vars))
	for k := range e.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + e.Vars[k]
	}
	return lines
}

// Abbreviate replaces a leading home directory with ~.
func Abbreviate(path, home string) string {
	if home == "" || home == "/" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+"/") {
		return "~" + path[len(home):]
	}
	return path
}
