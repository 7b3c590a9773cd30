// Package main is the entry point for the ops console backend.
//
// The server hosts any number of simulated DevOps terminal sessions and
// exposes them over a REST API and a WebSocket stream. Commands run
// against a virtual environment; nothing touches the host system.
//
// Configuration:
//   - Environment variables (PORT, LOG_LEVEL, CONSOLE_TOOL_LATENCY, ...)
//   - Optional TOML file (-config), overlaid on the environment
//   - CLI flags (override both)
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -config console.toml
//
//	# Development mode (colored logs, debug level)
//	./server -dev -latency 250ms
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
