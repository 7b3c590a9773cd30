// Package server wires the console backend together.
//
// NewServer builds, in order:
//  1. Logger (production or development) and Prometheus metrics
//  2. Tracer for per-request spans
//  3. WebSocket hub and the display registry that renders into it
//  4. Session manager with the command interpreter
//  5. Service registry with the terminal and catalog providers
//  6. Gin router with recovery, tracing, metrics, CORS and rate limiting
//
// Routes:
//
//	GET    /                     service info
//	GET    /health               liveness and counters
//	GET    /metrics              Prometheus exposition
//	GET    /metrics/summary      JSON counters
//	GET    /sessions             list sessions
//	POST   /sessions             create and activate a session
//	GET    /sessions/:id         session info
//	POST   /sessions/:id/activate
//	DELETE /sessions/:id
//	GET    /sessions/:id/transcript
//	POST   /input                keystrokes for a session or the active one
//	GET    /services
//	POST   /services/discover
//	POST   /services/execute
//	GET    /stream               WebSocket terminal stream
//	GET    /log/level            current log level
//	PUT    /log/level            change it, e.g. {"level":"debug"}
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	go srv.Run()
//	defer srv.Shutdown(ctx)
package server
