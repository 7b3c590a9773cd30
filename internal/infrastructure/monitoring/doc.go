/*
Package monitoring provides Prometheus metrics for the console backend.

Metrics live on a private registry so tests and multiple servers in one
process never collide. Every recording method is safe on a nil *Metrics.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "terminal", "terminal.write")
	result, err := provider.Execute(ctx, toolID, params, sctx)
	timer.StopResult(result.Success, err)
*/
package monitoring
