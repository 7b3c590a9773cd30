package shell

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/opsconsole/internal/console/style"
)

func (i *Interpreter) builtins() []Command {
	return []Command{
		{Name: "help", Usage: "help", Description: "Show this help message", Category: CategoryBasic, Handler: i.help},
		{Name: "clear", Usage: "clear", Description: "Clear the terminal", Category: CategoryBasic, Handler: clearScreen},
		{Name: "exit", Usage: "exit", Description: "Exit the terminal", Category: CategoryBasic, Handler: exit},
		{Name: "history", Usage: "history", Description: "Show command history", Category: CategoryBasic, Handler: history},
		{Name: "echo", Usage: "echo [text]", Description: "Print text", Category: CategoryBasic, Handler: echo},

		{Name: "ls", Usage: "ls [path]", Description: "List directory contents", Category: CategoryFiles, Handler: i.ls},
		{Name: "cd", Usage: "cd [path]", Description: "Change directory", Category: CategoryFiles, Handler: cd},
		{Name: "pwd", Usage: "pwd", Description: "Print working directory", Category: CategoryFiles, Handler: pwd},
		{Name: "mkdir", Usage: "mkdir <dir>", Description: "Create directory", Category: CategoryFiles, Handler: acknowledge("mkdir", "missing operand", "Directory '%s' created")},
		{Name: "rmdir", Usage: "rmdir <dir>", Description: "Remove directory", Category: CategoryFiles, Handler: acknowledge("rmdir", "missing operand", "Directory '%s' removed")},
		{Name: "touch", Usage: "touch <file>", Description: "Create empty file", Category: CategoryFiles, Handler: acknowledge("touch", "missing file operand", "File '%s' created")},
		{Name: "rm", Usage: "rm <file>", Description: "Remove file", Category: CategoryFiles, Handler: acknowledge("rm", "missing operand", "File '%s' removed")},
		{Name: "cp", Usage: "cp <src> <dst>", Description: "Copy file", Category: CategoryFiles, Handler: acknowledgePair("cp", "'%s' copied to '%s'")},
		{Name: "mv", Usage: "mv <src> <dst>", Description: "Move/rename file", Category: CategoryFiles, Handler: acknowledgePair("mv", "'%s' moved to '%s'")},
		{Name: "cat", Usage: "cat <file>", Description: "Display file contents", Category: CategoryFiles, Handler: i.cat},
		{Name: "head", Usage: "head <file>", Description: "Show first 10 lines", Category: CategoryFiles, Handler: i.head},
		{Name: "tail", Usage: "tail <file>", Description: "Show last 10 lines", Category: CategoryFiles, Handler: i.tail},
		{Name: "grep", Usage: "grep <pattern> <file>", Description: "Search in file", Category: CategoryFiles, Handler: i.grep},
		{Name: "find", Usage: "find <path> -name <pattern>", Description: "Find files", Category: CategoryFiles, Handler: i.find},
		{Name: "file", Usage: "file <path>", Description: "Show file type", Category: CategoryFiles, Handler: i.file},

		{Name: "ps", Usage: "ps [aux]", Description: "Show running processes", Category: CategorySystem, Handler: ps},
		{Name: "top", Usage: "top", Description: "Show system processes", Category: CategorySystem, Handler: top},
		{Name: "df", Usage: "df [-h]", Description: "Show disk usage", Category: CategorySystem, Handler: df},
		{Name: "free", Usage: "free [-h]", Description: "Show memory usage", Category: CategorySystem, Handler: free},
		{Name: "uptime", Usage: "uptime", Description: "Show system uptime", Category: CategorySystem, Handler: uptime},
		{Name: "whoami", Usage: "whoami", Description: "Show current user", Category: CategorySystem, Handler: whoami},
		{Name: "date", Usage: "date", Description: "Show current date and time", Category: CategorySystem, Handler: i.date},
		{Name: "uname", Usage: "uname [-a]", Description: "Show system information", Category: CategorySystem, Handler: uname},

		{Name: "env", Usage: "env", Description: "Show environment variables", Category: CategoryEnv, Handler: env},
		{Name: "export", Usage: "export KEY=value", Description: "Set an environment variable", Category: CategoryEnv, Handler: export},
		{Name: "unset", Usage: "unset KEY", Description: "Remove an environment variable", Category: CategoryEnv, Handler: unset},
	}
}

func (i *Interpreter) help(_ *Context, _ []string) Result {
	byCategory := make(map[string][]*Command)
	for _, c := range i.table.Commands() {
		byCategory[c.Category] = append(byCategory[c.Category], c)
	}

	out := []style.Text{style.Plain("Available commands:")}
	first := true
	for _, category := range categoryOrder {
		cmds := byCategory[category]
		if len(cmds) == 0 {
			continue
		}
		if !first {
			out = append(out, style.Plain(""))
		}
		first = false
		out = append(out, style.Plain("  "+category+":"))
		for _, c := range cmds {
			out = append(out, style.Plain(fmt.Sprintf("    %-13s - %s", c.Usage, c.Description)))
		}
	}
	return Result{Lines: out}
}

func clearScreen(_ *Context, _ []string) Result {
	return Result{Clear: true}
}

func exit(_ *Context, _ []string) Result {
	return Result{Lines: lines("Goodbye!"), Exit: true}
}

func history(ctx *Context, _ []string) Result {
	out := make([]style.Text, len(ctx.History))
	for n, entry := range ctx.History {
		out[n] = style.Plain(fmt.Sprintf("%5d  %s", n+1, entry))
	}
	return Result{Lines: out}
}

func echo(_ *Context, args []string) Result {
	return output(strings.Join(args, " "))
}

func cd(ctx *Context, args []string) Result {
	target := ""
	if len(args) > 0 {
		target = args[0]
	}
	ctx.Env.Chdir(target)
	return Result{}
}

func pwd(ctx *Context, _ []string) Result {
	return output(ctx.Env.Cwd)
}

// acknowledge builds a mutation built-in that only confirms its operand.
func acknowledge(name, missing, format string) Handler {
	return func(_ *Context, args []string) Result {
		if len(args) == 0 {
			return fail(name + ": " + missing)
		}
		return output(fmt.Sprintf(format, args[0]))
	}
}

func acknowledgePair(name, format string) Handler {
	return func(_ *Context, args []string) Result {
		if len(args) < 2 {
			return fail(name + ": missing file operand")
		}
		return output(fmt.Sprintf(format, args[0], args[1]))
	}
}

func env(ctx *Context, _ []string) Result {
	return output(ctx.Env.Sorted()...)
}

func export(ctx *Context, args []string) Result {
	if len(args) == 0 {
		sorted := ctx.Env.Sorted()
		out := make([]string, len(sorted))
		for n, kv := range sorted {
			key, value, _ := strings.Cut(kv, "=")
			out[n] = fmt.Sprintf("declare -x %s=%q", key, value)
		}
		return output(out...)
	}

	var res Result
	for _, arg := range args {
		key, value, hasValue := strings.Cut(arg, "=")
		if !validName(key) {
			res.Lines = append(res.Lines, style.Paint(style.Red, fmt.Sprintf("export: '%s': not a valid identifier", arg)))
			res.Failed = true
			continue
		}
		if !hasValue {
			value = ctx.Env.Vars[key]
		}
		ctx.Env.Set(key, value)
	}
	return res
}

func unset(ctx *Context, args []string) Result {
	var res Result
	for _, key := range args {
		if !validName(key) {
			res.Lines = append(res.Lines, style.Paint(style.Red, fmt.Sprintf("unset: '%s': not a valid identifier", key)))
			res.Failed = true
			continue
		}
		ctx.Env.Unset(key)
	}
	return res
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for n, r := range s {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && n > 0:
		default:
			return false
		}
	}
	return true
}
