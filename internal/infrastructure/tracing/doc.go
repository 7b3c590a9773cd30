/*
Package tracing provides lightweight request tracing.

Every HTTP request gets a span. Inbound X-Trace-ID / X-Span-ID headers
continue an existing trace; the ids of the new span are echoed back in
the response headers. Finished spans are logged by a background
collector through zap: at debug level normally, at warn when failed.

# Usage

	tracer := tracing.New("opsconsole", logger)
	defer tracer.Close()
	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.Start(ctx, "terminal.execute")
	defer span.End()
*/
package tracing
