package console

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/opsconsole/internal/console/input"
	"github.com/GriffinCanCode/opsconsole/internal/console/shell"
	"github.com/GriffinCanCode/opsconsole/internal/infrastructure/logging"
	"github.com/GriffinCanCode/opsconsole/internal/infrastructure/monitoring"
)

// Profile is the identity every new session starts with.
type Profile struct {
	User     string
	Hostname string
	Home     string
}

// DefaultProfile returns the stock identity.
func DefaultProfile() Profile {
	return Profile{
		User:     "devops-user",
		Hostname: "devops-ide",
		Home:     "/home/user",
	}
}

// EventKind classifies a session lifecycle event.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventActivated EventKind = "activated"
	EventClosed    EventKind = "closed"
)

// Event reports a lifecycle change together with the resulting session
// list. Observers run on the loop and must not call the manager.
type Event struct {
	Kind     EventKind     `json:"kind"`
	Session  SessionInfo   `json:"session"`
	Sessions []SessionInfo `json:"sessions"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithInterpreter replaces the default interpreter.
func WithInterpreter(interp *shell.Interpreter) Option {
	return func(m *Manager) {
		if interp != nil {
			m.interp = interp
		}
	}
}

// WithProfile sets the user, hostname and home of new sessions.
func WithProfile(p Profile) Option {
	return func(m *Manager) { m.profile = p }
}

// WithWelcome toggles the banner written to new sessions.
func WithWelcome(enabled bool) Option {
	return func(m *Manager) { m.welcome = enabled }
}

// WithObserver registers a lifecycle observer.
func WithObserver(fn func(Event)) Option {
	return func(m *Manager) { m.observers = append(m.observers, fn) }
}

// WithoutDefaultSession skips the session normally created at start.
func WithoutDefaultSession() Option {
	return func(m *Manager) { m.defaultSession = false }
}

// Manager owns every session and routes input to the active one. Its
// methods are safe for concurrent use; all work runs on one loop.
type Manager struct {
	loop      *Loop
	factory   DisplayFactory
	interp    *shell.Interpreter
	completer *input.Completer
	profile   Profile
	welcome   bool
	log       *logging.Logger
	metrics   *monitoring.Metrics
	observers []func(Event)

	defaultSession bool

	// loop-owned
	sessions []*Session
	active   *Session
	counter  int
	closed   bool

	shutdown sync.Once
}

// NewManager starts the loop and, unless disabled, creates the first
// session.
func NewManager(factory DisplayFactory, opts ...Option) *Manager {
	m := &Manager{
		factory:        factory,
		profile:        DefaultProfile(),
		welcome:        true,
		log:            logging.NewNop(),
		defaultSession: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.interp == nil {
		m.interp = shell.NewInterpreter()
	}
	m.completer = input.NewCompleter(m.interp.Vocabulary())
	m.loop = NewLoop(m.log.Named("loop"))
	go m.loop.Run()

	if m.defaultSession {
		_, _ = m.CreateSession()
	}
	return m
}

// Interpreter returns the command interpreter shared by all sessions.
func (m *Manager) Interpreter() *shell.Interpreter {
	return m.interp
}

// CreateSession opens a session, makes it active and writes the welcome
// banner and first prompt.
func (m *Manager) CreateSession() (SessionInfo, error) {
	var info SessionInfo
	err := m.do(func() error {
		m.counter++
		s := newSession(m, fmt.Sprintf("Terminal %d", m.counter))
		s.display = m.factory(s.info())
		m.sessions = append(m.sessions, s)

		m.activate(s)
		if m.welcome {
			s.welcome()
		}
		s.Prompt()

		m.metrics.SessionOpened(len(m.sessions))
		s.log.Info("session created")
		info = s.info()
		m.emit(EventCreated, s)
		return nil
	})
	return info, err
}

// ActivateSession makes id the active session.
func (m *Manager) ActivateSession(id string) error {
	return m.do(func() error {
		s, err := m.find(id)
		if err != nil {
			return err
		}
		if m.active == s {
			return nil
		}
		m.activate(s)
		s.log.Debug("session activated")
		m.emit(EventActivated, s)
		return nil
	})
}

// CloseSession disposes id. If it was active, the oldest remaining
// session becomes active.
func (m *Manager) CloseSession(id string) error {
	return m.do(func() error {
		s, err := m.find(id)
		if err != nil {
			return err
		}
		m.remove(s)
		return nil
	})
}

// RouteInput feeds raw input to the active session. It reports false when
// no session is active.
func (m *Manager) RouteInput(raw string) bool {
	routed := false
	_ = m.do(func() error {
		if m.active == nil {
			return nil
		}
		m.metrics.RecordInput(len(raw))
		m.active.editor.Feed(raw)
		routed = true
		return nil
	})
	return routed
}

// SendInput feeds raw input to a specific session, active or not.
func (m *Manager) SendInput(id, raw string) error {
	return m.do(func() error {
		s, err := m.find(id)
		if err != nil {
			return err
		}
		m.metrics.RecordInput(len(raw))
		s.editor.Feed(raw)
		return nil
	})
}

// Sessions returns snapshots in creation order.
func (m *Manager) Sessions() []SessionInfo {
	var out []SessionInfo
	_ = m.do(func() error {
		out = m.snapshot()
		return nil
	})
	return out
}

// Session returns one snapshot.
func (m *Manager) Session(id string) (SessionInfo, error) {
	var info SessionInfo
	err := m.do(func() error {
		s, err := m.find(id)
		if err != nil {
			return err
		}
		info = s.info()
		return nil
	})
	return info, err
}

// Active returns the active session, if any.
func (m *Manager) Active() (SessionInfo, bool) {
	var (
		info SessionInfo
		ok   bool
	)
	_ = m.do(func() error {
		if m.active != nil {
			info, ok = m.active.info(), true
		}
		return nil
	})
	return info, ok
}

// Shutdown disposes every session and stops the loop. Later calls return
// ErrClosed from every method that can fail.
func (m *Manager) Shutdown() {
	m.shutdown.Do(func() {
		_ = m.do(func() error {
			for len(m.sessions) > 0 {
				m.remove(m.sessions[0])
			}
			m.closed = true
			return nil
		})
		m.loop.Stop()
		m.log.Info("console shut down")
	})
}

// do runs fn on the loop and returns its error.
func (m *Manager) do(fn func() error) error {
	var err error
	if loopErr := m.loop.Do(func() {
		if m.closed {
			err = ErrClosed
			return
		}
		err = fn()
	}); loopErr != nil {
		return loopErr
	}
	return err
}

func (m *Manager) find(id string) (*Session, error) {
	for _, s := range m.sessions {
		if s.id.String() == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (m *Manager) activate(s *Session) {
	if prev := m.active; prev != nil && prev != s {
		prev.active = false
		prev.display.Detach()
	}
	s.active = true
	m.active = s
	s.display.Attach()
}

func (m *Manager) remove(s *Session) {
	for i, other := range m.sessions {
		if other == s {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			break
		}
	}

	wasActive := m.active == s
	if wasActive {
		m.active = nil
	}
	if err := s.close(); err != nil {
		s.log.Warn("display close failed", zap.Error(err))
	}
	m.metrics.SessionClosed(len(m.sessions))
	s.log.Info("session closed")
	m.emit(EventClosed, s)

	if wasActive && len(m.sessions) > 0 {
		next := m.sessions[0]
		m.activate(next)
		m.emit(EventActivated, next)
	}
}

func (m *Manager) snapshot() []SessionInfo {
	out := make([]SessionInfo, len(m.sessions))
	for i, s := range m.sessions {
		out[i] = s.info()
	}
	return out
}

func (m *Manager) emit(kind EventKind, s *Session) {
	if len(m.observers) == 0 {
		return
	}
	ev := Event{Kind: kind, Session: s.info(), Sessions: m.snapshot()}
	for _, fn := range m.observers {
		fn(ev)
	}
}
