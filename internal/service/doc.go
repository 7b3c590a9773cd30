// Package service provides the service registry of the console backend.
//
// Providers expose tools (service.tool ids) that HTTP clients and
// dashboards can discover and execute. Execution is timed into the
// service metrics.
//
// Example Usage:
//
//	registry := service.NewRegistry(metrics)
//	registry.Register(terminal.NewProvider(mgr, surfaces))
//	services := registry.Discover("open a console session", 5)
//	result, err := registry.Execute(ctx, "terminal.execute", params, sctx)
package service
