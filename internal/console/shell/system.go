package shell

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/opsconsole/internal/console/style"
)

const uptimeLine = "up 2 days,  3:45,  1 user,  load average: 0.15, 0.25, 0.30"

func ps(ctx *Context, args []string) Result {
	procs := ctx.Env.Processes
	if len(args) > 0 && (args[0] == "aux" || args[0] == "-aux") {
		out := []style.Text{style.Plain("USER       PID %CPU %MEM    VSZ   RSS TTY      STAT START   TIME COMMAND")}
		for _, p := range procs {
			out = append(out, style.Plain(fmt.Sprintf("%-8s %5d %4.1f %4.1f 123456  12345 pts/0    S    10:30   %s %s",
				ctx.Env.User(), p.PID, p.CPU, p.Memory, p.Time, p.Command)))
		}
		return Result{Lines: out}
	}

	// Short form shows the interactive subset of the table
	from, to := 1, 4
	if to > len(procs) {
		to = len(procs)
	}
	if from > to {
		from = to
	}
	out := []style.Text{style.Plain("  PID TTY          TIME CMD")}
	for _, p := range procs[from:to] {
		out = append(out, style.Plain(fmt.Sprintf("%5d pts/0    %s %s", p.PID, p.Time, p.Command)))
	}
	return Result{Lines: out}
}

func top(ctx *Context, _ []string) Result {
	out := lines(
		"top - 10:30:15 "+uptimeLine,
		"Tasks: 156 total,   1 running, 155 sleeping,   0 stopped,   0 zombie",
		"%Cpu(s):  2.1 us,  1.3 sy,  0.0 ni, 96.2 id,  0.4 wa,  0.0 hi,  0.0 si,  0.0 st",
		"MiB Mem :   7936.0 total,   1234.5 free,   3456.7 used,   3244.8 buff/cache",
		"MiB Swap:   2048.0 total,   2048.0 free,      0.0 used.   4123.4 avail Mem",
		"",
	)
	out = append(out, style.Bold(style.Default, "  PID USER      PR  NI    VIRT    RES    SHR S  %CPU  %MEM     TIME+ COMMAND"))
	for _, p := range ctx.Env.Processes {
		out = append(out, style.Plain(fmt.Sprintf("%5d %-8s 20   0  123456  12345   8765 S  %4.1f  %4.1f   %s %s",
			p.PID, ctx.Env.User(), p.CPU, p.Memory, p.Time, p.Command)))
	}
	return Result{Lines: out}
}

func df(_ *Context, args []string) Result {
	if len(args) > 0 && args[0] == "-h" {
		return output(
			"Filesystem      Size  Used Avail Use% Mounted on",
			"/dev/sda1        20G  8.5G   11G  45% /",
			"tmpfs           3.9G     0  3.9G   0% /dev/shm",
			"/dev/sda2       100G   45G   50G  48% /home",
		)
	}
	return output(
		"Filesystem     1K-blocks     Used Available Use% Mounted on",
		"/dev/sda1       20971520  8912896  11534336  45% /",
		"tmpfs            4063232        0   4063232   0% /dev/shm",
		"/dev/sda2      104857600 47185920  52428800  48% /home",
	)
}

func free(_ *Context, args []string) Result {
	if len(args) > 0 && args[0] == "-h" {
		return output(
			"              total        used        free      shared  buff/cache   available",
			"Mem:          7.8Gi       3.4Gi       1.2Gi       256Mi       3.2Gi       4.0Gi",
			"Swap:         2.0Gi          0B       2.0Gi",
		)
	}
	return output(
		"              total        used        free      shared  buff/cache   available",
		"Mem:        8126464     3567890     1234567      262144     3323907     4123456",
		"Swap:       2097152           0     2097152",
	)
}

func uptime(_ *Context, _ []string) Result {
	return output(" 10:30:15 " + uptimeLine)
}

func whoami(ctx *Context, _ []string) Result {
	return output(ctx.Env.User())
}

func (i *Interpreter) date(_ *Context, _ []string) Result {
	return output(i.now().Format(time.UnixDate))
}

func uname(ctx *Context, args []string) Result {
	if len(args) > 0 && args[0] == "-a" {
		return output(fmt.Sprintf("Linux %s 5.15.0-generic #72-Ubuntu SMP Tue Nov 23 20:14:38 UTC 2021 x86_64 x86_64 x86_64 GNU/Linux", ctx.Env.Hostname))
	}
	return output("Linux")
}
