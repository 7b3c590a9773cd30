package terminal

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/opsconsole/internal/console"
	"github.com/GriffinCanCode/opsconsole/internal/display"
	"github.com/GriffinCanCode/opsconsole/internal/shared/types"
)

func newProvider(t *testing.T) (*Provider, *console.Manager) {
	t.Helper()
	surfaces := display.NewRegistry(nil)
	mgr := console.NewManager(surfaces.Factory(), console.WithWelcome(false))
	t.Cleanup(mgr.Shutdown)
	return NewProvider(mgr, surfaces), mgr
}

func exec(t *testing.T, p *Provider, tool string, params map[string]interface{}) *types.Result {
	t.Helper()
	result, err := p.Execute(context.Background(), tool, params, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func TestDefinition(t *testing.T) {
	p, _ := newProvider(t)
	def := p.Definition()

	assert.Equal(t, "terminal", def.ID)
	assert.Equal(t, types.CategoryTerminal, def.Category)

	ids := make(map[string]bool)
	for _, tool := range def.Tools {
		ids[tool.ID] = true
	}
	for _, want := range []string{
		"terminal.create_session", "terminal.list_sessions", "terminal.get_session",
		"terminal.activate", "terminal.write", "terminal.execute", "terminal.read", "terminal.kill",
	} {
		assert.True(t, ids[want], "missing tool %s", want)
	}
}

func TestCreateAndList(t *testing.T) {
	p, _ := newProvider(t)

	created := exec(t, p, "terminal.create_session", nil)
	require.True(t, created.Success)
	assert.Equal(t, "Terminal 2", created.Data["name"])
	assert.Equal(t, true, created.Data["active"])

	listed := exec(t, p, "terminal.list_sessions", nil)
	assert.Equal(t, 2, listed.Data["count"])
}

func TestExecuteReturnsImmediateOutput(t *testing.T) {
	p, _ := newProvider(t)

	result := exec(t, p, "terminal.execute", map[string]interface{}{"command": "pwd"})
	require.True(t, result.Success)
	assert.Equal(t, "pwd\r\n/home/user\r\ndevops-user@devops-ide:~$ ", result.Data["output"])
}

func TestExecuteValidatesCommand(t *testing.T) {
	p, _ := newProvider(t)

	result := exec(t, p, "terminal.execute", map[string]interface{}{"command": "ls\rpwd"})
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
}

func TestWriteAndRead(t *testing.T) {
	p, mgr := newProvider(t)
	active, ok := mgr.Active()
	require.True(t, ok)

	w := exec(t, p, "terminal.write", map[string]interface{}{"session_id": active.ID, "input": "whoami\r"})
	require.True(t, w.Success)

	r := exec(t, p, "terminal.read", map[string]interface{}{"session_id": active.ID, "plain": true})
	assert.Contains(t, r.Data["output"], "devops-user\r\n")

	raw := exec(t, p, "terminal.read", map[string]interface{}{"session_id": active.ID})
	assert.Equal(t, "base64", raw.Data["encoding"])
	decoded, err := base64.StdEncoding.DecodeString(raw.Data["output"].(string))
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "\x1b[32m")
}

func TestContextSession(t *testing.T) {
	p, mgr := newProvider(t)
	first, _ := mgr.Active()
	_, err := mgr.CreateSession()
	require.NoError(t, err)

	id := first.ID
	result, err := p.Execute(context.Background(), "terminal.get_session", nil, &types.Context{SessionID: &id})
	require.NoError(t, err)
	assert.Equal(t, first.ID, result.Data["id"])
	assert.Equal(t, false, result.Data["active"])
}

func TestActivateAndKill(t *testing.T) {
	p, mgr := newProvider(t)
	first, _ := mgr.Active()
	second, err := mgr.CreateSession()
	require.NoError(t, err)

	require.True(t, exec(t, p, "terminal.activate", map[string]interface{}{"session_id": first.ID}).Success)
	active, _ := mgr.Active()
	assert.Equal(t, first.ID, active.ID)

	require.True(t, exec(t, p, "terminal.kill", map[string]interface{}{"session_id": second.ID}).Success)
	assert.Len(t, mgr.Sessions(), 1)
}

func TestUnknownSessionIsFailure(t *testing.T) {
	p, _ := newProvider(t)

	result := exec(t, p, "terminal.kill", map[string]interface{}{"session_id": "sess_missing"})
	assert.False(t, result.Success)
	assert.Contains(t, *result.Error, "session not found")
}

func TestNoActiveSession(t *testing.T) {
	p, mgr := newProvider(t)
	active, _ := mgr.Active()
	require.NoError(t, mgr.CloseSession(active.ID))

	result := exec(t, p, "terminal.execute", map[string]interface{}{"command": "ls"})
	assert.False(t, result.Success)
	assert.Equal(t, "no active session", *result.Error)
}

func TestUnknownTool(t *testing.T) {
	p, _ := newProvider(t)
	_, err := p.Execute(context.Background(), "terminal.resize", nil, nil)
	assert.Error(t, err)
}

func TestDelta(t *testing.T) {
	assert.Equal(t, "new", string(delta([]byte("old"), []byte("oldnew"))))
	assert.Equal(t, "wrapped", string(delta([]byte("old"), []byte("wrapped"))))
}
