package tracing

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/opsconsole/internal/shared/id"
)

// Header names used for propagation
const (
	TraceHeader = "X-Trace-ID"
	SpanHeader  = "X-Span-ID"
)

const spanBuffer = 1024

// Span is one timed operation. A span belongs to the goroutine that
// started it until End.
type Span struct {
	TraceID  id.TraceID
	SpanID   id.SpanID
	ParentID id.SpanID
	Name     string
	Start    time.Time
	Duration time.Duration
	Status   int
	Err      error

	fields []zap.Field
	tracer *Tracer
	ended  bool
}

// Tag attaches a string attribute.
func (s *Span) Tag(key, value string) *Span {
	s.fields = append(s.fields, zap.String(key, value))
	return s
}

// Fail marks the span as failed.
func (s *Span) Fail(err error) {
	s.Err = err
}

// End stamps the duration and hands the span to the collector. Later
// calls do nothing.
func (s *Span) End() {
	if s.ended {
		return
	}
	s.ended = true
	s.Duration = time.Since(s.Start)
	s.tracer.submit(s)
}

// Tracer logs finished spans from a background collector.
type Tracer struct {
	service string
	logger  *zap.Logger
	spans   chan *Span
	dropped atomic.Uint64

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// New starts a tracer for service.
func New(service string, logger *zap.Logger) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracer{
		service: service,
		logger:  logger,
		spans:   make(chan *Span, spanBuffer),
		done:    make(chan struct{}),
	}
	go t.collect()
	return t
}

// Start opens a span, continuing the trace carried by ctx if any.
func (t *Tracer) Start(ctx context.Context, name string) (*Span, context.Context) {
	traceID := GetTraceID(ctx)
	if traceID == "" {
		traceID = id.NewTraceID()
	}
	span := &Span{
		TraceID:  traceID,
		SpanID:   id.NewSpanID(),
		ParentID: GetSpanID(ctx),
		Name:     name,
		Start:    time.Now(),
		tracer:   t,
	}
	return span, WithTrace(ctx, span.TraceID, span.SpanID)
}

// Dropped counts spans discarded because the collector fell behind or
// the tracer was closed.
func (t *Tracer) Dropped() uint64 {
	return t.dropped.Load()
}

// Close flushes pending spans and stops the collector.
func (t *Tracer) Close() {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.spans)
	}
	t.mu.Unlock()
	<-t.done
}

func (t *Tracer) submit(s *Span) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		t.dropped.Add(1)
		return
	}
	select {
	case t.spans <- s:
	default:
		t.dropped.Add(1)
	}
}

func (t *Tracer) collect() {
	defer close(t.done)
	for s := range t.spans {
		t.log(s)
	}
}

func (t *Tracer) log(s *Span) {
	fields := append([]zap.Field{
		zap.String("service", t.service),
		zap.String("trace_id", s.TraceID.String()),
		zap.String("span_id", s.SpanID.String()),
		zap.String("operation", s.Name),
		zap.Duration("duration", s.Duration),
	}, s.fields...)
	if s.ParentID != "" {
		fields = append(fields, zap.String("parent_id", s.ParentID.String()))
	}
	if s.Status != 0 {
		fields = append(fields, zap.Int("status", s.Status))
	}
	if s.Err != nil {
		t.logger.Warn("span failed", append(fields, zap.Error(s.Err))...)
		return
	}
	t.logger.Debug("span completed", fields...)
}

type contextKey int

const (
	traceIDKey contextKey = iota
	spanIDKey
)

// GetTraceID retrieves the trace ID from context
func GetTraceID(ctx context.Context) id.TraceID {
	traceID, _ := ctx.Value(traceIDKey).(id.TraceID)
	return traceID
}

// GetSpanID retrieves the current span ID from context
func GetSpanID(ctx context.Context) id.SpanID {
	spanID, _ := ctx.Value(spanIDKey).(id.SpanID)
	return spanID
}

// WithTrace returns ctx carrying a trace and the span new children hang
// off. Empty ids are ignored.
func WithTrace(ctx context.Context, traceID id.TraceID, spanID id.SpanID) context.Context {
	if traceID != "" {
		ctx = context.WithValue(ctx, traceIDKey, traceID)
	}
	if spanID != "" {
		ctx = context.WithValue(ctx, spanIDKey, spanID)
	}
	return ctx
}
