// Package id generates the identifiers used across the console backend.
//
// Every id is a ULID behind a short type prefix (sess_, run_, trace_,
// span_). ULIDs from one generator are monotonic, so session ids sort in
// creation order, and distinct string types keep a run id from being
// passed where a session id is expected.
package id

import (
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies a console session
type SessionID string

// RunID identifies one simulated tool invocation
type RunID string

// TraceID identifies a traced request
type TraceID string

// SpanID identifies one operation within a trace
type SpanID string

const (
	SessionPrefix = "sess"
	RunPrefix     = "run"
	TracePrefix   = "trace"
	SpanPrefix    = "span"
)

// Generator hands out monotonic ULIDs. It is safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var defaultGenerator = sync.OnceValue(NewGenerator)

// Default returns the process-wide generator
func Default() *Generator {
	return defaultGenerator()
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return NewGeneratorWithEntropy(ulid.Monotonic(rand.Reader, 0))
}

// NewGeneratorWithEntropy uses a custom entropy source, for deterministic tests
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix returns prefix_ULID
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return prefix + "_" + g.GenerateString()
}

func next[T ~string](prefix string) T {
	return T(Default().GenerateWithPrefix(prefix))
}

func NewSessionID() SessionID { return next[SessionID](SessionPrefix) }
func NewRunID() RunID         { return next[RunID](RunPrefix) }
func NewTraceID() TraceID     { return next[TraceID](TracePrefix) }
func NewSpanID() SpanID       { return next[SpanID](SpanPrefix) }

func (id SessionID) String() string { return string(id) }
func (id RunID) String() string     { return string(id) }
func (id TraceID) String() string   { return string(id) }
func (id SpanID) String() string    { return string(id) }

// IsValid reports whether id is a bare ULID
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Parse parses a ULID, with or without a type prefix
func Parse(id string) (ulid.ULID, error) {
	if _, rest, ok := strings.Cut(id, "_"); ok {
		id = rest
	}
	return ulid.Parse(id)
}

// Timestamp extracts the creation time of an id
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
