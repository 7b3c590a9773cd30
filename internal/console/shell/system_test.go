package shell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPs(t *testing.T) {
	in := NewInterpreter()
	ctx := newContext()

	res := in.Execute(ctx, "ps")
	assert.Equal(t, []string{
		"  PID TTY          TIME CMD",
		"  123 pts/0    00:00:05 bash",
		"  456 pts/0    00:15:32 node",
		"  789 pts/0    00:08:45 docker",
	}, texts(res.Lines))

	for _, flag := range []string{"aux", "-aux"} {
		res = in.Execute(ctx, "ps "+flag)
		out := texts(res.Lines)
		require.Len(t, out, 6)
		assert.Equal(t, "USER       PID %CPU %MEM    VSZ   RSS TTY      STAT START   TIME COMMAND", out[0])
		assert.Equal(t, "devops-user     1  0.1  1.2 123456  12345 pts/0    S    10:30   00:01:23 systemd", out[1])
		assert.Equal(t, "devops-user  1011  0.3  8.9 123456  12345 pts/0    S    10:30   00:02:15 kubectl", out[5])
	}
}

func TestPsShortTable(t *testing.T) {
	in := NewInterpreter()
	ctx := newContext()
	ctx.Env.Processes = ctx.Env.Processes[:2]

	res := in.Execute(ctx, "ps")
	assert.Equal(t, []string{
		"  PID TTY          TIME CMD",
		"  123 pts/0    00:00:05 bash",
	}, texts(res.Lines))

	ctx.Env.Processes = nil
	res = in.Execute(ctx, "ps")
	assert.Len(t, res.Lines, 1)
}

func TestTop(t *testing.T) {
	in := NewInterpreter()

	out := texts(in.Execute(newContext(), "top").Lines)
	require.Len(t, out, 12)
	assert.Equal(t, "top - 10:30:15 up 2 days,  3:45,  1 user,  load average: 0.15, 0.25, 0.30", out[0])
	assert.Equal(t, "  456 devops-user 20   0  123456  12345   8765 S   2.1  45.6   00:15:32 node", out[9])
}

func TestCannedSystemInfo(t *testing.T) {
	in := NewInterpreter()

	tests := []struct {
		line  string
		first string
		count int
	}{
		{"df", "Filesystem     1K-blocks     Used Available Use% Mounted on", 4},
		{"df -h", "Filesystem      Size  Used Avail Use% Mounted on", 4},
		{"free", "              total        used        free      shared  buff/cache   available", 3},
		{"free -h", "              total        used        free      shared  buff/cache   available", 3},
		{"uptime", " 10:30:15 up 2 days,  3:45,  1 user,  load average: 0.15, 0.25, 0.30", 1},
		{"uname", "Linux", 1},
		{"uname -a", "Linux devops-ide 5.15.0-generic #72-Ubuntu SMP Tue Nov 23 20:14:38 UTC 2021 x86_64 x86_64 x86_64 GNU/Linux", 1},
		{"whoami", "devops-user", 1},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out := texts(in.Execute(newContext(), tt.line).Lines)
			require.Len(t, out, tt.count)
			assert.Equal(t, tt.first, out[0])
		})
	}

	out := texts(in.Execute(newContext(), "free -h").Lines)
	assert.Equal(t, "Mem:          7.8Gi       3.4Gi       1.2Gi       256Mi       3.2Gi       4.0Gi", out[1])
}

func TestDate(t *testing.T) {
	fixed := time.Date(2023, time.December, 15, 10, 30, 15, 0, time.UTC)
	in := NewInterpreter(WithClock(func() time.Time { return fixed }))

	res := in.Execute(newContext(), "date")
	assert.Equal(t, []string{"Fri Dec 15 10:30:15 UTC 2023"}, texts(res.Lines))
}

func TestEnvExportUnset(t *testing.T) {
	in := NewInterpreter()
	ctx := newContext()

	res := in.Execute(ctx, "export AWS_REGION=us-east-1 KUBECONFIG=/home/user/.kube/config")
	assert.Empty(t, res.Lines)
	assert.Equal(t, "us-east-1", ctx.Env.Vars["AWS_REGION"])

	res = in.Execute(ctx, "env")
	out := texts(res.Lines)
	assert.Equal(t, "AWS_REGION=us-east-1", out[0])
	assert.Contains(t, out, "KUBECONFIG=/home/user/.kube/config")
	assert.Contains(t, out, "USER=devops-user")

	res = in.Execute(ctx, "export 9LIVES=x")
	assert.True(t, res.Failed)
	assert.Equal(t, []string{"export: '9LIVES=x': not a valid identifier"}, texts(res.Lines))

	res = in.Execute(ctx, "export EMPTY")
	assert.False(t, res.Failed)
	assert.Equal(t, "", ctx.Env.Vars["EMPTY"])
	assert.Contains(t, ctx.Env.Vars, "EMPTY")

	res = in.Execute(ctx, "unset AWS_REGION EMPTY")
	assert.Empty(t, res.Lines)
	assert.NotContains(t, ctx.Env.Vars, "AWS_REGION")
	assert.NotContains(t, ctx.Env.Vars, "EMPTY")

	res = in.Execute(ctx, "export")
	assert.Contains(t, texts(res.Lines), `declare -x USER="devops-user"`)

	res = in.Execute(ctx, "unset a-b")
	assert.True(t, res.Failed)
}

func TestExportedHomeMovesCd(t *testing.T) {
	in := NewInterpreter()
	ctx := newContext()

	in.Execute(ctx, "export HOME=/srv")
	in.Execute(ctx, "cd /tmp")
	in.Execute(ctx, "cd")
	assert.Equal(t, "/srv", ctx.Env.Cwd)
}
