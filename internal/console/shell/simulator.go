package shell

import (
	"strings"
	"time"

	"github.com/GriffinCanCode/opsconsole/internal/console/style"
)

const (
	// Indicator is shown while a simulated run is pending.
	Indicator = "..."
	// ClearIndicator erases the indicator line before the response.
	ClearIndicator = "\r\x1b[K"

	// DefaultLatency is the simulated run time when none is configured.
	DefaultLatency = time.Second
)

// Run is a deferred tool invocation produced by the interpreter. The
// caller schedules Respond after Delay.
type Run struct {
	Tool    string
	Command string
	Delay   time.Duration
}

// Simulator produces canned tool output.
type Simulator struct {
	catalog *Catalog
	latency time.Duration
}

// NewSimulator returns a simulator over catalog. A non-positive latency
// selects DefaultLatency.
func NewSimulator(catalog *Catalog, latency time.Duration) *Simulator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if latency <= 0 {
		latency = DefaultLatency
	}
	return &Simulator{catalog: catalog, latency: latency}
}

// Delay returns how long a run of tool takes.
func (s *Simulator) Delay(tool Tool) time.Duration {
	if tool.Latency > 0 {
		return tool.Latency
	}
	return s.latency
}

// Respond returns the output of command: the first catalog response whose
// match occurs in it, or a generic acknowledgement.
func (s *Simulator) Respond(command string) []style.Text {
	for _, r := range s.catalog.Responses {
		if strings.Contains(command, r.Match) {
			out := make([]style.Text, len(r.Lines))
			copy(out, r.Lines)
			return out
		}
	}
	return []style.Text{style.Plain("Command executed successfully: " + command)}
}
