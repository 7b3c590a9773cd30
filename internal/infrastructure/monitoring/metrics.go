package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "opsconsole"

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and
// records nothing, so components can be built without a collector.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Session metrics
	SessionsOpen    prometheus.Gauge
	SessionsCreated prometheus.Counter
	SessionsClosed  prometheus.Counter
	InputBytes      prometheus.Counter

	// Interpreter metrics
	Commands        *prometheus.CounterVec
	UnknownCommands prometheus.Counter

	// Simulator metrics
	ToolRuns        *prometheus.CounterVec
	ToolRunsPending prometheus.Gauge
	ToolRunDuration *prometheus.HistogramVec

	// Service metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the JSON health endpoint.
type Snapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	SessionsOpen      int64   `json:"sessions_open"`
	CommandsRun       int64   `json:"commands_run"`
	ToolRunsPending   int64   `json:"tool_runs_pending"`
	ActiveConnections int64   `json:"active_connections"`
	AvgDurationMS     float64 `json:"avg_duration_ms"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a collector on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_size_bytes",
				Help:      "HTTP request size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		SessionsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_open",
			Help:      "Number of open console sessions",
		}),
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Total number of console sessions created",
		}),
		SessionsClosed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_closed_total",
			Help:      "Total number of console sessions closed",
		}),
		InputBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_bytes_total",
			Help:      "Raw input bytes routed to sessions",
		}),

		Commands: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Submitted commands by name and kind",
			},
			[]string{"command", "kind"},
		),
		UnknownCommands: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_unknown_total",
			Help:      "Submitted lines whose first word matched no command",
		}),

		ToolRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_runs_total",
				Help:      "Simulated tool runs by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
		ToolRunsPending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tool_runs_pending",
			Help:      "Simulated tool runs waiting for completion",
		}),
		ToolRunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_run_duration_seconds",
				Help:      "Time between dispatch and completion of a simulated run",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2, 5},
			},
			[]string{"tool"},
		),

		ServiceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "service_calls_total",
				Help:      "Total number of service tool calls",
			},
			[]string{"service", "method", "status"},
		),
		ServiceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "service_duration_seconds",
				Help:      "Service tool call duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"service", "method"},
		),

		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connections",
			Help:      "Number of active WebSocket connections",
		}),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ws_messages_total",
				Help:      "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "uptime_seconds",
		Help:      "Backend uptime in seconds",
	}, func() float64 {
		return time.Since(m.startTime).Seconds()
	})

	return m
}

// Registry returns the private registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordUpgrade counts a WebSocket upgrade request. It is left out of the
// latency histograms and the JSON snapshot.
func (m *Metrics) RecordUpgrade(path, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues("GET", path, status).Inc()
}

// SessionOpened records a created session and the new open count.
func (m *Metrics) SessionOpened(open int) {
	if m == nil {
		return
	}
	m.SessionsCreated.Inc()
	m.setSessionsOpen(open)
}

// SessionClosed records a closed session and the new open count.
func (m *Metrics) SessionClosed(open int) {
	if m == nil {
		return
	}
	m.SessionsClosed.Inc()
	m.setSessionsOpen(open)
}

func (m *Metrics) setSessionsOpen(open int) {
	m.SessionsOpen.Set(float64(open))
	m.mu.Lock()
	m.snapshot.SessionsOpen = int64(open)
	m.mu.Unlock()
}

// RecordInput counts raw input routed to a session.
func (m *Metrics) RecordInput(n int) {
	if m == nil {
		return
	}
	m.InputBytes.Add(float64(n))
}

// RecordCommand counts a submitted command. An empty name counts as unknown.
func (m *Metrics) RecordCommand(name, kind string) {
	if m == nil {
		return
	}
	if name == "" {
		m.UnknownCommands.Inc()
	} else {
		m.Commands.WithLabelValues(name, kind).Inc()
	}
	m.mu.Lock()
	m.snapshot.CommandsRun++
	m.mu.Unlock()
}

// ToolRunStarted records a simulated run entering its latency window.
func (m *Metrics) ToolRunStarted() {
	if m == nil {
		return
	}
	m.ToolRunsPending.Inc()
	m.mu.Lock()
	m.snapshot.ToolRunsPending++
	m.mu.Unlock()
}

// ToolRunFinished records the end of a simulated run. Outcome is
// "completed" or "cancelled".
func (m *Metrics) ToolRunFinished(tool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ToolRunsPending.Dec()
	m.ToolRuns.WithLabelValues(tool, outcome).Inc()
	if outcome == "completed" {
		m.ToolRunDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
	}
	m.mu.Lock()
	m.snapshot.ToolRunsPending--
	m.mu.Unlock()
}

// RecordServiceCall records a service call
func (m *Metrics) RecordServiceCall(service, method, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ServiceCalls.WithLabelValues(service, method, status).Inc()
	m.ServiceDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the current values for the JSON health endpoint.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	s := m.snapshot
	m.mu.RUnlock()

	if s.TotalRequests > 0 {
		s.AvgDurationMS = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
