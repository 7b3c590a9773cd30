package display

import (
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/opsconsole/internal/console"
)

// DefaultScrollback is the per-session scrollback size in bytes.
const DefaultScrollback = 256 * 1024

// Registry creates one Surface per session and keeps the live ones
// addressable by session id.
type Registry struct {
	sink       Sink
	encoding   Encoding
	scrollback int
	log        *zap.Logger

	mu       sync.RWMutex
	surfaces map[string]*Surface
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithEncoding sets how styled text is encoded.
func WithEncoding(e Encoding) RegistryOption {
	return func(r *Registry) { r.encoding = e }
}

// WithScrollback sets the per-session scrollback size.
func WithScrollback(size int) RegistryOption {
	return func(r *Registry) {
		if size > 0 {
			r.scrollback = size
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRegistry creates surfaces that forward to sink.
func NewRegistry(sink Sink, opts ...RegistryOption) *Registry {
	r := &Registry{
		sink:       sink,
		encoding:   EncodeANSI,
		scrollback: DefaultScrollback,
		log:        zap.NewNop(),
		surfaces:   make(map[string]*Surface),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Factory returns the console.DisplayFactory backed by this registry.
func (r *Registry) Factory() console.DisplayFactory {
	return func(info console.SessionInfo) console.Display {
		s := NewSurface(info.ID, info.Name, r.sink, r.encoding, r.scrollback)
		s.onClose = r.remove

		r.mu.Lock()
		r.surfaces[info.ID] = s
		r.mu.Unlock()

		r.log.Debug("surface created", zap.String("session_id", info.ID))
		return s
	}
}

// Get returns the live surface of a session.
func (r *Registry) Get(id string) (*Surface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.surfaces[id]
	return s, ok
}

// Len returns the number of live surfaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.surfaces)
}

func (r *Registry) remove(s *Surface) {
	r.mu.Lock()
	delete(r.surfaces, s.id)
	r.mu.Unlock()
	r.log.Debug("surface released", zap.String("session_id", s.id))
}

// Transcript returns the scrollback of a live session.
func (r *Registry) Transcript(id string) ([]byte, bool) {
	s, ok := r.Get(id)
	if !ok {
		return nil, false
	}
	return s.Transcript(), true
}
