package shell

import (
	"strings"
	"time"

	"github.com/GriffinCanCode/opsconsole/internal/console/style"
	"github.com/GriffinCanCode/opsconsole/internal/console/virtual"
)

// Context is what a command may read and mutate.
type Context struct {
	Env *virtual.Environment
	// History holds the session's submitted lines, including the one
	// being executed.
	History []string
}

// Result is the outcome of one submitted line.
type Result struct {
	Lines []style.Text
	// Clear asks the display to erase its surface.
	Clear bool
	// Exit suppresses the prompt that normally follows.
	Exit bool
	// Run is set when output is deferred to the simulator.
	Run *Run
	// Failed marks user-input errors.
	Failed bool
	// Command is the dispatched name; empty for unknown commands.
	Command string
	Kind    Kind
}

// Interpreter tokenizes lines and dispatches them through its table.
type Interpreter struct {
	table *Table
	sim   *Simulator
	tree  *virtual.Tree
	now   func() time.Time
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithCatalog replaces the embedded tool catalog.
func WithCatalog(c *Catalog) Option {
	return func(i *Interpreter) {
		if c != nil {
			i.sim.catalog = c
		}
	}
}

// WithLatency sets the default simulated tool latency.
func WithLatency(d time.Duration) Option {
	return func(i *Interpreter) {
		if d > 0 {
			i.sim.latency = d
		}
	}
}

// WithTree replaces the embedded file tree.
func WithTree(t *virtual.Tree) Option {
	return func(i *Interpreter) { i.tree = t }
}

// WithClock sets the time source used by date.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) { i.now = now }
}

// NewInterpreter builds the dispatch table from the built-ins and the
// catalog's tools. It panics if the catalog redefines a built-in.
func NewInterpreter(opts ...Option) *Interpreter {
	i := &Interpreter{
		table: NewTable(),
		sim:   NewSimulator(nil, DefaultLatency),
		tree:  virtual.DefaultTree(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}

	for _, cmd := range i.builtins() {
		if err := i.table.Register(cmd); err != nil {
			panic(err)
		}
	}
	for idx := range i.sim.catalog.Tools {
		tool := &i.sim.catalog.Tools[idx]
		err := i.table.Register(Command{
			Name:        tool.Name,
			Usage:       tool.Usage,
			Description: tool.Description,
			Category:    CategoryTools,
			Kind:        KindTool,
			Tool:        tool,
		})
		if err != nil {
			panic(err)
		}
	}
	return i
}

// Table returns the dispatch table.
func (i *Interpreter) Table() *Table {
	return i.table
}

// Simulator returns the tool simulator.
func (i *Interpreter) Simulator() *Simulator {
	return i.sim
}

// Vocabulary returns every dispatchable name.
func (i *Interpreter) Vocabulary() []string {
	return i.table.Names()
}

// Execute runs one trimmed line. Blank lines produce an empty result.
func (i *Interpreter) Execute(ctx *Context, line string) Result {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Result{}
	}
	name, args := fields[0], fields[1:]

	cmd, ok := i.table.Lookup(strings.ToLower(name))
	if !ok {
		return Result{
			Lines: []style.Text{
				style.Paint(style.Red, "Command not found: "+name),
				style.Plain(`Type "help" for available commands.`),
			},
			Failed: true,
		}
	}

	var res Result
	switch cmd.Kind {
	case KindTool:
		res = i.runTool(cmd, args)
	default:
		res = cmd.Handler(ctx, args)
	}
	res.Command = cmd.Name
	res.Kind = cmd.Kind
	return res
}

func (i *Interpreter) runTool(cmd *Command, args []string) Result {
	if len(args) == 0 {
		lines := make([]style.Text, len(cmd.Tool.Banner))
		for idx, l := range cmd.Tool.Banner {
			lines[idx] = style.Plain(l)
		}
		return Result{Lines: lines}
	}

	command := cmd.Name + " " + strings.Join(args, " ")
	return Result{
		Lines: []style.Text{style.Plain("Executing: " + command)},
		Run: &Run{
			Tool:    cmd.Name,
			Command: command,
			Delay:   i.sim.Delay(*cmd.Tool),
		},
	}
}

func lines(text ...string) []style.Text {
	out := make([]style.Text, len(text))
	for i, t := range text {
		out[i] = style.Plain(t)
	}
	return out
}

func fail(text string) Result {
	return Result{Lines: []style.Text{style.Paint(style.Red, text)}, Failed: true}
}

func output(text ...string) Result {
	return Result{Lines: lines(text...)}
}
