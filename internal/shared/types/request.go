package types

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID    string                 `json:"tool_id" binding:"required"`
	Params    map[string]interface{} `json:"params"`
	SessionID *string                `json:"session_id,omitempty"`
}

// InputRequest carries raw keystrokes for a console session. An empty
// SessionID targets the active session.
type InputRequest struct {
	SessionID string `json:"session_id"`
	Data      string `json:"data" binding:"required"`
}

// CommandRequest submits one command line to a session.
type CommandRequest struct {
	Command string `json:"command" binding:"required"`
}
