package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware records every request against its route template. WebSocket
// upgrades are only counted: their lifetime is the stream's, not a request's.
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		upgrade := c.IsWebsocket()

		c.Next()

		path := routeLabel(c)
		status := strconv.Itoa(c.Writer.Status())
		if upgrade {
			metrics.RecordUpgrade(path, status)
			return
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, status, time.Since(start),
			nonNegative(c.Request.ContentLength), nonNegative(int64(c.Writer.Size())))
	}
}

// routeLabel keeps label cardinality bounded by using the route template.
func routeLabel(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return "unmatched"
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// Timer measures one service tool call.
type Timer struct {
	metrics *Metrics
	service string
	tool    string
	start   time.Time
}

// NewTimer starts timing a call of tool on service.
func NewTimer(metrics *Metrics, service, tool string) *Timer {
	return &Timer{
		metrics: metrics,
		service: service,
		tool:    tool,
		start:   time.Now(),
	}
}

// Stop records the call under an explicit status label.
func (t *Timer) Stop(status string) {
	t.metrics.RecordServiceCall(t.service, t.tool, status, time.Since(t.start))
}

// StopResult records "error" when err is set, "failed" when the provider
// reported an unsuccessful result, and "ok" otherwise.
func (t *Timer) StopResult(succeeded bool, err error) {
	switch {
	case err != nil:
		t.Stop("error")
	case !succeeded:
		t.Stop("failed")
	default:
		t.Stop("ok")
	}
}
