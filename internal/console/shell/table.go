package shell

import (
	"fmt"
	"strings"
)

// Kind tags a dispatch table entry.
type Kind int

const (
	KindBuiltin Kind = iota
	KindTool
)

func (k Kind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindTool:
		return "tool"
	default:
		return "unknown"
	}
}

// Help categories in display order.
const (
	CategoryBasic  = "Basic Commands"
	CategoryFiles  = "File System"
	CategorySystem = "System Info"
	CategoryEnv    = "Environment"
	CategoryTools  = "DevOps Tools"
)

var categoryOrder = []string{
	CategoryBasic,
	CategoryFiles,
	CategorySystem,
	CategoryEnv,
	CategoryTools,
}

// Handler runs a built-in.
type Handler func(ctx *Context, args []string) Result

// Command is one dispatch table entry. Built-ins carry a Handler; tools
// carry a Tool.
type Command struct {
	Name        string
	Usage       string
	Description string
	Category    string
	Kind        Kind
	Handler     Handler
	Tool        *Tool
}

// Table maps command names to commands. It is the single source for
// dispatch, completion and help.
type Table struct {
	byName map[string]*Command
	order  []*Command
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Command)}
}

// Register adds cmd. Names are stored lower-case and must be unique.
func (t *Table) Register(cmd Command) error {
	cmd.Name = strings.ToLower(cmd.Name)
	if cmd.Name == "" {
		return fmt.Errorf("register command: empty name")
	}
	if _, exists := t.byName[cmd.Name]; exists {
		return fmt.Errorf("register command: %s already registered", cmd.Name)
	}
	switch cmd.Kind {
	case KindBuiltin:
		if cmd.Handler == nil {
			return fmt.Errorf("register command: builtin %s has no handler", cmd.Name)
		}
	case KindTool:
		if cmd.Tool == nil {
			return fmt.Errorf("register command: tool %s has no descriptor", cmd.Name)
		}
	default:
		return fmt.Errorf("register command: %s has unknown kind %d", cmd.Name, cmd.Kind)
	}
	if cmd.Usage == "" {
		cmd.Usage = cmd.Name
	}

	c := cmd
	t.byName[c.Name] = &c
	t.order = append(t.order, &c)
	return nil
}

// Lookup finds a command by exact lower-case name.
func (t *Table) Lookup(name string) (*Command, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Names returns every command name in registration order.
func (t *Table) Names() []string {
	names := make([]string, len(t.order))
	for i, c := range t.order {
		names[i] = c.Name
	}
	return names
}

// Commands returns every command in registration order.
func (t *Table) Commands() []*Command {
	out := make([]*Command, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of commands.
func (t *Table) Len() int {
	return len(t.order)
}
