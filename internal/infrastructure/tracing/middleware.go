package tracing

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/opsconsole/internal/shared/id"
)

// HTTPMiddleware opens a span per request named after the route template.
// Inbound trace headers are continued and the new ids are echoed back.
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithTrace(c.Request.Context(),
			id.TraceID(c.GetHeader(TraceHeader)),
			id.SpanID(c.GetHeader(SpanHeader)))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		span, ctx := tracer.Start(ctx, c.Request.Method+" "+route)
		span.Tag("http.method", c.Request.Method).Tag("http.path", c.Request.URL.Path)
		c.Request = c.Request.WithContext(ctx)
		c.Header(TraceHeader, span.TraceID.String())
		c.Header(SpanHeader, span.SpanID.String())

		c.Next()

		span.Status = c.Writer.Status()
		span.Tag("http.status", strconv.Itoa(span.Status))
		if err := c.Errors.Last(); err != nil {
			span.Fail(err)
		}
		span.End()
	}
}
