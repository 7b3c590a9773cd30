package shell

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"

	"github.com/GriffinCanCode/opsconsole/internal/console/style"
	"github.com/GriffinCanCode/opsconsole/internal/console/virtual"
)

const defaultLineCount = 10

// locate maps a user path to a tree path relative to home.
func (i *Interpreter) locate(ctx *Context, arg string) (string, bool) {
	abs := path.Clean(ctx.Env.Abs(arg))
	rel, ok := virtual.Rel(ctx.Env.Home(), abs)
	if !ok || !i.tree.Exists(rel) {
		return "", false
	}
	return rel, true
}

// read returns the lines of a file, or an error result prefixed with cmd.
func (i *Interpreter) read(ctx *Context, cmd, arg string) ([]string, *Result) {
	rel, ok := i.locate(ctx, arg)
	if !ok {
		r := fail(fmt.Sprintf("%s: %s: No such file or directory", cmd, arg))
		return nil, &r
	}
	content, isFile := i.tree.Open(rel)
	if !isFile {
		r := fail(fmt.Sprintf("%s: %s: Is a directory", cmd, arg))
		return nil, &r
	}
	return virtual.Lines(content), nil
}

func (i *Interpreter) ls(ctx *Context, args []string) Result {
	target := ""
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			target = a
			break
		}
	}

	var listing virtual.Listing
	switch target {
	case "", ".", ctx.Env.Cwd:
		listing = i.tree.Home
	case "/":
		listing = i.tree.Root
	default:
		return fail(fmt.Sprintf("ls: cannot access '%s': No such file or directory", target))
	}

	out := make([]style.Text, 0, len(listing.Entries)+1)
	out = append(out, style.Plain(fmt.Sprintf("total %d", listing.Total)))
	for _, e := range listing.Entries {
		name := style.Span{Text: e.Name}
		if e.Dir {
			name.Color = style.Blue
		}
		out = append(out, style.Line(style.Span{Text: e.Attrs + " "}, name))
	}
	return Result{Lines: out}
}

func (i *Interpreter) cat(ctx *Context, args []string) Result {
	if len(args) == 0 {
		return fail("cat: missing file operand")
	}
	var res Result
	for _, arg := range args {
		content, errRes := i.read(ctx, "cat", arg)
		if errRes != nil {
			res.Lines = append(res.Lines, errRes.Lines...)
			res.Failed = true
			continue
		}
		res.Lines = append(res.Lines, lines(content...)...)
	}
	return res
}

// lineArgs parses [-n N] <file>.
func lineArgs(cmd string, args []string) (int, string, *Result) {
	n := defaultLineCount
	var file string
	for idx := 0; idx < len(args); idx++ {
		a := args[idx]
		switch {
		case a == "-n" && idx+1 < len(args):
			idx++
			v, err := strconv.Atoi(args[idx])
			if err != nil || v < 0 {
				r := fail(fmt.Sprintf("%s: invalid number of lines: '%s'", cmd, args[idx]))
				return 0, "", &r
			}
			n = v
		case file == "":
			file = a
		}
	}
	if file == "" {
		r := fail(cmd + ": missing file operand")
		return 0, "", &r
	}
	return n, file, nil
}

func (i *Interpreter) head(ctx *Context, args []string) Result {
	n, file, errRes := lineArgs("head", args)
	if errRes != nil {
		return *errRes
	}
	content, errRes := i.read(ctx, "head", file)
	if errRes != nil {
		return *errRes
	}
	if n < len(content) {
		content = content[:n]
	}
	return output(content...)
}

func (i *Interpreter) tail(ctx *Context, args []string) Result {
	n, file, errRes := lineArgs("tail", args)
	if errRes != nil {
		return *errRes
	}
	content, errRes := i.read(ctx, "tail", file)
	if errRes != nil {
		return *errRes
	}
	if n < len(content) {
		content = content[len(content)-n:]
	}
	return output(content...)
}

func (i *Interpreter) grep(ctx *Context, args []string) Result {
	ignoreCase := false
	var operands []string
	for _, a := range args {
		if a == "-i" {
			ignoreCase = true
			continue
		}
		operands = append(operands, a)
	}
	if len(operands) < 2 {
		return fail("grep: missing operand")
	}

	pattern, files := operands[0], operands[1:]
	var res Result
	for _, file := range files {
		content, errRes := i.read(ctx, "grep", file)
		if errRes != nil {
			res.Lines = append(res.Lines, errRes.Lines...)
			res.Failed = true
			continue
		}
		for _, line := range content {
			text, ok := highlight(line, pattern, ignoreCase)
			if !ok {
				continue
			}
			if len(files) > 1 {
				text = style.Line(style.Magenta.Span(file), style.Span{Text: ":"}).Append(text)
			}
			res.Lines = append(res.Lines, text)
		}
	}
	return res
}

// highlight paints every occurrence of pattern in line.
func highlight(line, pattern string, ignoreCase bool) (style.Text, bool) {
	if pattern == "" {
		return style.Plain(line), true
	}
	haystack, needle := line, pattern
	if ignoreCase {
		haystack, needle = strings.ToLower(line), strings.ToLower(pattern)
	}
	if len(haystack) != len(line) {
		// case folding changed byte offsets; match without highlighting
		return style.Plain(line), strings.Contains(haystack, needle)
	}
	if !strings.Contains(haystack, needle) {
		return nil, false
	}

	var out style.Text
	rest, restLower := line, haystack
	for {
		idx := strings.Index(restLower, needle)
		if idx < 0 {
			break
		}
		if idx > 0 {
			out = append(out, style.Span{Text: rest[:idx]})
		}
		out = append(out, style.Span{Text: rest[idx : idx+len(needle)], Color: style.Red, Bold: true})
		rest, restLower = rest[idx+len(needle):], restLower[idx+len(needle):]
	}
	if rest != "" {
		out = append(out, style.Span{Text: rest})
	}
	return out, true
}

func (i *Interpreter) find(ctx *Context, args []string) Result {
	var root, pattern string
	switch {
	case len(args) >= 3 && args[1] == "-name":
		root, pattern = args[0], args[2]
	case len(args) >= 2 && args[0] == "-name":
		root, pattern = ".", args[1]
	default:
		return fail("find: invalid syntax")
	}
	if !doublestar.ValidatePattern(pattern) {
		return fail(fmt.Sprintf("find: invalid pattern '%s'", pattern))
	}

	rel, ok := i.locate(ctx, root)
	if !ok || !i.tree.IsDir(rel) {
		return fail(fmt.Sprintf("find: '%s': No such file or directory", root))
	}

	prefix := strings.TrimSuffix(root, "/") + "/"
	var res Result
	for _, p := range i.tree.Walk(rel) {
		matched, err := doublestar.Match(pattern, path.Base(p))
		if err != nil || !matched {
			continue
		}
		sub := p
		if rel != "" {
			sub = strings.TrimPrefix(p, rel+"/")
		}
		res.Lines = append(res.Lines, style.Plain(prefix+sub))
	}
	return res
}

func (i *Interpreter) file(ctx *Context, args []string) Result {
	if len(args) == 0 {
		return fail("file: missing file operand")
	}
	var res Result
	for _, arg := range args {
		rel, ok := i.locate(ctx, arg)
		if !ok {
			res.Lines = append(res.Lines, style.Paint(style.Red, fmt.Sprintf("%s: cannot open '%s' (No such file or directory)", arg, arg)))
			res.Failed = true
			continue
		}
		content, isFile := i.tree.Open(rel)
		if !isFile {
			res.Lines = append(res.Lines, style.Plain(arg+": directory"))
			continue
		}
		res.Lines = append(res.Lines, style.Plain(arg+": "+mimetype.Detect([]byte(content)).String()))
	}
	return res
}
