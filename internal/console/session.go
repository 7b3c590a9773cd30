package console

import (
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/opsconsole/internal/console/input"
	"github.com/GriffinCanCode/opsconsole/internal/console/shell"
	"github.com/GriffinCanCode/opsconsole/internal/console/style"
	"github.com/GriffinCanCode/opsconsole/internal/console/virtual"
	"github.com/GriffinCanCode/opsconsole/internal/shared/id"
)

// SessionInfo is a read-only snapshot of a session.
type SessionInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Active      bool      `json:"active"`
	Cwd         string    `json:"cwd"`
	HistoryLen  int       `json:"history_len"`
	PendingRuns int       `json:"pending_runs"`
	CreatedAt   time.Time `json:"created_at"`
}

type pendingRun struct {
	run     *shell.Run
	timer   *time.Timer
	started time.Time
}

// Session is one terminal. It is owned by the manager's loop.
type Session struct {
	id      id.SessionID
	name    string
	created time.Time

	mgr     *Manager
	display Display
	env     *virtual.Environment
	editor  *input.Editor
	log     *zap.Logger

	runs   map[id.RunID]*pendingRun
	active bool
	closed bool
}

func newSession(m *Manager, name string) *Session {
	s := &Session{
		id:      id.NewSessionID(),
		name:    name,
		created: time.Now(),
		mgr:     m,
		env:     virtual.NewEnvironment(m.profile.User, m.profile.Hostname, m.profile.Home),
		runs:    make(map[id.RunID]*pendingRun),
	}
	s.log = m.log.Session(s.id.String(), name)
	s.editor = input.NewEditor(s, input.NewHistory(), m.completer)
	return s
}

func (s *Session) info() SessionInfo {
	return SessionInfo{
		ID:          s.id.String(),
		Name:        s.name,
		Active:      s.active,
		Cwd:         s.env.Cwd,
		HistoryLen:  s.editor.History().Len(),
		PendingRuns: len(s.runs),
		CreatedAt:   s.created,
	}
}

// Echo implements input.Host.
func (s *Session) Echo(text string) {
	s.display.Render(style.Plain(text))
}

// Prompt implements input.Host.
func (s *Session) Prompt() {
	s.display.Render(style.Line(
		style.Green.Span(s.env.User()+"@"+s.env.Hostname),
		style.Span{Text: ":"},
		style.Blue.Span(s.env.DisplayPath()),
		style.Span{Text: "$ "},
	))
}

// ClearScreen implements input.Host.
func (s *Session) ClearScreen() {
	s.display.Clear()
}

// Submit implements input.Host.
func (s *Session) Submit(line string) {
	if line == "" {
		s.Prompt()
		return
	}

	res := s.mgr.interp.Execute(&shell.Context{
		Env:     s.env,
		History: s.editor.History().Entries(),
	}, line)
	s.mgr.metrics.RecordCommand(res.Command, res.Kind.String())
	s.log.Debug("command executed",
		zap.String("command", res.Command),
		zap.Bool("failed", res.Failed),
		zap.Int("lines", len(res.Lines)))

	if res.Clear {
		s.display.Clear()
	}
	for _, l := range res.Lines {
		s.writeln(l)
	}
	if res.Run != nil {
		s.startRun(res.Run)
		return
	}
	if !res.Exit {
		s.Prompt()
	}
}

func (s *Session) writeln(text style.Text) {
	s.display.Render(text.Append(style.Plain(input.CRLF)))
}

func (s *Session) welcome() {
	s.writeln(style.Bold(style.Green, "Welcome to DevOps IDE Terminal"))
	s.writeln(style.Paint(style.Cyan, `Type "help" for available commands`))
	s.display.Render(style.Plain(input.CRLF))
}

// startRun shows the indicator and schedules the response on the loop.
func (s *Session) startRun(run *shell.Run) {
	runID := id.NewRunID()
	s.display.Render(style.Plain(shell.Indicator))
	s.runs[runID] = &pendingRun{
		run:     run,
		started: time.Now(),
		timer: s.mgr.loop.After(run.Delay, func() {
			s.finishRun(runID)
		}),
	}
	s.mgr.metrics.ToolRunStarted()
	s.log.Debug("tool run started",
		zap.String("run_id", runID.String()),
		zap.String("command", run.Command),
		zap.Duration("delay", run.Delay))
}

func (s *Session) finishRun(runID id.RunID) {
	p, ok := s.runs[runID]
	if !ok || s.closed {
		return
	}
	delete(s.runs, runID)

	s.display.Render(style.Plain(shell.ClearIndicator))
	for _, l := range s.mgr.interp.Simulator().Respond(p.run.Command) {
		s.writeln(l)
	}
	s.Prompt()

	elapsed := time.Since(p.started)
	s.mgr.metrics.ToolRunFinished(p.run.Tool, "completed", elapsed)
	s.log.Debug("tool run finished",
		zap.String("run_id", runID.String()),
		zap.Duration("elapsed", elapsed))
}

// close cancels pending runs and releases the display.
func (s *Session) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.active = false
	for runID, p := range s.runs {
		p.timer.Stop()
		s.mgr.metrics.ToolRunFinished(p.run.Tool, "cancelled", 0)
		delete(s.runs, runID)
	}
	return s.display.Close()
}
