// Package config loads the console backend settings.
//
// Values come from the environment (with defaults in struct tags). A TOML
// file passed to LoadFile overlays only the keys it names, and the flags
// in cmd/ override both.
//
//	[server]
//	port = "8000"
//	allow_origins = ["http://localhost:5173"]
//
//	[console]
//	user = "ops"
//	tool_latency = "250ms"
//
// Environment Variables:
//   - PORT, HOST, CORS_ORIGINS
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CONSOLE_USER, CONSOLE_HOSTNAME, CONSOLE_HOME, CONSOLE_TOOL_LATENCY,
//     CONSOLE_SCROLLBACK, CONSOLE_WELCOME
package config
