// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
//
// The level is atomic: SetLevel, or a PUT to the handler returned by
// LevelHandler, changes it for the logger and every child.
//
// Example Usage:
//
//	logger := logging.FromLevel(cfg.Logging.Level, cfg.Logging.Development)
//	logger.Info("console started", zap.Int("sessions", 1))
//	logger.Session(id, name).Debug("tool run scheduled", zap.String("tool", "docker"))
package logging
