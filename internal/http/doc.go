// Package http provides HTTP handlers and routing for the console REST API.
//
// Endpoints:
//   - Health: / and /health
//   - Sessions: /sessions, /sessions/:id, /sessions/:id/activate,
//     /sessions/:id/transcript
//   - Input: /input
//   - Services: /services, /services/discover, /services/execute
//     (terminal.* and catalog.* tools)
//
// Unknown sessions map to 404, malformed payloads to 400 and a console
// that has shut down to 503. Errors are returned as {"error": "..."}.
//
// Example Usage:
//
//	handlers := http.NewHandlers(mgr, surfaces, registry, metrics)
//	handlers.Register(router)
package http
