package terminal

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/opsconsole/internal/console"
	"github.com/GriffinCanCode/opsconsole/internal/shared/types"
	"github.com/GriffinCanCode/opsconsole/internal/shared/utils"
)

// Console is the session manager surface the provider drives.
type Console interface {
	CreateSession() (console.SessionInfo, error)
	ActivateSession(id string) error
	CloseSession(id string) error
	RouteInput(raw string) bool
	SendInput(id, raw string) error
	Sessions() []console.SessionInfo
	Session(id string) (console.SessionInfo, error)
	Active() (console.SessionInfo, bool)
}

// Transcripts gives access to session scrollback.
type Transcripts interface {
	Transcript(id string) ([]byte, bool)
}

// Provider exposes the console as a tool-based service
type Provider struct {
	console     Console
	transcripts Transcripts
}

// NewProvider creates a new terminal provider
func NewProvider(c Console, transcripts Transcripts) *Provider {
	return &Provider{
		console:     c,
		transcripts: transcripts,
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "terminal",
		Name:        "Terminal Service",
		Description: "Simulated devops console with multiple shell sessions and mock cluster tools",
		Category:    types.CategoryTerminal,
		Capabilities: []string{
			"shell",
			"interactive",
			"ansi",
			"sessions",
			"devops_tools",
		},
		Tools: p.getTools(),
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, sctx *types.Context) (*types.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		result *types.Result
		err    error
	)
	switch toolID {
	case "terminal.create_session":
		result, err = p.createSession()
	case "terminal.list_sessions":
		result, err = p.listSessions()
	case "terminal.get_session":
		result, err = p.getSession(params, sctx)
	case "terminal.activate":
		result, err = p.activate(params, sctx)
	case "terminal.write":
		result, err = p.write(params, sctx)
	case "terminal.execute":
		result, err = p.execute(params, sctx)
	case "terminal.read":
		result, err = p.read(params, sctx)
	case "terminal.kill":
		result, err = p.kill(params, sctx)
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolID)
	}

	// Unknown sessions are caller errors, not provider faults.
	if errors.Is(err, console.ErrNotFound) {
		return types.Failure(err.Error()), nil
	}
	return result, err
}

func (p *Provider) getTools() []types.Tool {
	sessionParam := types.Parameter{
		Name:        "session_id",
		Type:        "string",
		Description: "Console session ID. Defaults to the caller's or the active session",
		Required:    false,
	}

	return []types.Tool{
		{
			ID:          "terminal.create_session",
			Name:        "Create Terminal Session",
			Description: "Open a new console session and make it active",
			Parameters:  []types.Parameter{},
			Returns:     "session_info",
		},
		{
			ID:          "terminal.list_sessions",
			Name:        "List Terminal Sessions",
			Description: "List all console sessions in creation order",
			Parameters:  []types.Parameter{},
			Returns:     "sessions_list",
		},
		{
			ID:          "terminal.get_session",
			Name:        "Get Session Info",
			Description: "Get information about a console session",
			Parameters:  []types.Parameter{sessionParam},
			Returns:     "session_info",
		},
		{
			ID:          "terminal.activate",
			Name:        "Activate Session",
			Description: "Make a console session the active one",
			Parameters:  []types.Parameter{{Name: "session_id", Type: "string", Description: "Console session ID", Required: true}},
			Returns:     "success",
		},
		{
			ID:          "terminal.write",
			Name:        "Write to Terminal",
			Description: "Send raw keystrokes to a console session",
			Parameters: []types.Parameter{
				sessionParam,
				{
					Name:        "input",
					Type:        "string",
					Description: "Raw input, including control characters",
					Required:    true,
				},
			},
			Returns: "success",
		},
		{
			ID:          "terminal.execute",
			Name:        "Execute Command",
			Description: "Submit one command line and return the output it printed immediately",
			Parameters: []types.Parameter{
				sessionParam,
				{
					Name:        "command",
					Type:        "string",
					Description: "Command line to run",
					Required:    true,
				},
			},
			Returns: "output_data",
		},
		{
			ID:          "terminal.read",
			Name:        "Read from Terminal",
			Description: "Read the scrollback of a console session",
			Parameters: []types.Parameter{
				sessionParam,
				{
					Name:        "plain",
					Type:        "boolean",
					Description: "Strip ANSI escape sequences",
					Required:    false,
				},
			},
			Returns: "output_data",
		},
		{
			ID:          "terminal.kill",
			Name:        "Close Terminal Session",
			Description: "Close a console session",
			Parameters:  []types.Parameter{{Name: "session_id", Type: "string", Description: "Console session ID", Required: true}},
			Returns:     "success",
		},
	}
}

func (p *Provider) createSession() (*types.Result, error) {
	info, err := p.console.CreateSession()
	if err != nil {
		return nil, err
	}
	return &types.Result{Success: true, Data: sessionData(info)}, nil
}

func (p *Provider) listSessions() (*types.Result, error) {
	sessions := p.console.Sessions()
	list := make([]interface{}, len(sessions))
	for i, s := range sessions {
		list[i] = sessionData(s)
	}
	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"sessions": list,
			"count":    len(sessions),
		},
	}, nil
}

func (p *Provider) getSession(params map[string]interface{}, sctx *types.Context) (*types.Result, error) {
	id, err := p.target(params, sctx)
	if err != nil {
		return types.Failure(err.Error()), nil
	}
	info, err := p.console.Session(id)
	if err != nil {
		return nil, err
	}
	return &types.Result{Success: true, Data: sessionData(info)}, nil
}

func (p *Provider) activate(params map[string]interface{}, _ *types.Context) (*types.Result, error) {
	id, _ := params["session_id"].(string)
	if err := utils.ValidateID(id, "session_id", true); err != nil {
		return types.Failure(err.Error()), nil
	}
	if err := p.console.ActivateSession(id); err != nil {
		return nil, err
	}
	return &types.Result{Success: true, Data: map[string]interface{}{"session_id": id}}, nil
}

func (p *Provider) write(params map[string]interface{}, sctx *types.Context) (*types.Result, error) {
	input, _ := params["input"].(string)
	if err := utils.ValidateInput(input); err != nil {
		return types.Failure(err.Error()), nil
	}
	id, err := p.target(params, sctx)
	if err != nil {
		return types.Failure(err.Error()), nil
	}
	if err := p.console.SendInput(id, input); err != nil {
		return nil, err
	}
	return &types.Result{Success: true, Data: map[string]interface{}{"session_id": id, "bytes": len(input)}}, nil
}

func (p *Provider) execute(params map[string]interface{}, sctx *types.Context) (*types.Result, error) {
	command, _ := params["command"].(string)
	if err := utils.ValidateCommand(command); err != nil {
		return types.Failure(err.Error()), nil
	}
	id, err := p.target(params, sctx)
	if err != nil {
		return types.Failure(err.Error()), nil
	}

	before, _ := p.transcripts.Transcript(id)
	if err := p.console.SendInput(id, command+"\r"); err != nil {
		return nil, err
	}
	after, _ := p.transcripts.Transcript(id)

	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"session_id": id,
			"command":    command,
			"output":     stripANSI(delta(before, after)),
		},
	}, nil
}

func (p *Provider) read(params map[string]interface{}, sctx *types.Context) (*types.Result, error) {
	id, err := p.target(params, sctx)
	if err != nil {
		return types.Failure(err.Error()), nil
	}
	output, ok := p.transcripts.Transcript(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", console.ErrNotFound, id)
	}
	if plain, _ := params["plain"].(bool); plain {
		return &types.Result{
			Success: true,
			Data: map[string]interface{}{
				"session_id": id,
				"output":     stripANSI(output),
				"size":       len(output),
			},
		}, nil
	}

	// Encode output as base64 to keep escape sequences intact
	return &types.Result{
		Success: true,
		Data: map[string]interface{}{
			"session_id": id,
			"output":     base64.StdEncoding.EncodeToString(output),
			"encoding":   "base64",
			"size":       len(output),
		},
	}, nil
}

func (p *Provider) kill(params map[string]interface{}, _ *types.Context) (*types.Result, error) {
	id, _ := params["session_id"].(string)
	if err := utils.ValidateID(id, "session_id", true); err != nil {
		return types.Failure(err.Error()), nil
	}
	if err := p.console.CloseSession(id); err != nil {
		return nil, err
	}
	return &types.Result{Success: true, Data: map[string]interface{}{"session_id": id}}, nil
}

// target resolves the session a call acts on: the explicit parameter,
// then the caller's context, then the active session.
func (p *Provider) target(params map[string]interface{}, sctx *types.Context) (string, error) {
	if id, _ := params["session_id"].(string); id != "" {
		return id, utils.ValidateID(id, "session_id", true)
	}
	if sctx != nil && sctx.SessionID != nil && *sctx.SessionID != "" {
		return *sctx.SessionID, utils.ValidateID(*sctx.SessionID, "session_id", true)
	}
	active, ok := p.console.Active()
	if !ok {
		return "", errors.New("no active session")
	}
	return active.ID, nil
}

func sessionData(info console.SessionInfo) map[string]interface{} {
	return map[string]interface{}{
		"id":           info.ID,
		"name":         info.Name,
		"active":       info.Active,
		"cwd":          info.Cwd,
		"history_len":  info.HistoryLen,
		"pending_runs": info.PendingRuns,
		"created_at":   info.CreatedAt,
	}
}

// delta returns what was appended to the scrollback between two
// snapshots. If the buffer wrapped in between, all of after is returned.
func delta(before, after []byte) []byte {
	if len(after) >= len(before) && string(after[:len(before)]) == string(before) {
		return after[len(before):]
	}
	return after
}

func stripANSI(b []byte) string {
	return utils.StripANSI(string(b))
}
