package logging

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with console-specific helpers. The level can be
// changed while running.
type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
}

// Config defines logger configuration.
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Development bool
	OutputPaths []string
}

// New creates a logger. Production loggers write JSON; development
// loggers write colored console lines with stack traces on warnings.
func New(cfg Config) (*Logger, error) {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig = productionEncoder()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig = developmentEncoder()
	}
	zapCfg.Level = level
	zapCfg.Sampling = nil
	if len(cfg.OutputPaths) > 0 {
		zapCfg.OutputPaths = cfg.OutputPaths
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{Logger: logger, level: level}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop(), level: zap.NewAtomicLevelAt(zapcore.FatalLevel)}
}

// FromLevel builds a logger from the level/dev pair carried by the
// application config. A bad level falls back to info; a bad output path
// falls back to stdout.
func FromLevel(level string, development bool, outputs ...string) *Logger {
	cfg := Config{Level: level, Development: development, OutputPaths: outputs}
	if logger, err := New(cfg); err == nil {
		return logger
	}
	if _, err := zapcore.ParseLevel(level); err != nil {
		cfg.Level = "info"
		if logger, err := New(cfg); err == nil {
			return logger
		}
	}
	cfg.OutputPaths = []string{"stdout"}
	if logger, err := New(cfg); err == nil {
		return logger
	}
	return NewNop()
}

// Session returns a child logger tagged with a console session.
func (l *Logger) Session(id, name string) *zap.Logger {
	return l.With(zap.String("session_id", id), zap.String("session", name))
}

// Level reports the current minimum level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// SetLevel changes the minimum level of this logger and all its children.
func (l *Logger) SetLevel(level string) error {
	return l.level.UnmarshalText([]byte(level))
}

// LevelHandler serves GET (read) and PUT (change) of the level as JSON,
// e.g. PUT {"level":"debug"}.
func (l *Logger) LevelHandler() http.Handler {
	return l.level
}

func productionEncoder() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeDuration = zapcore.SecondsDurationEncoder
	return enc
}

func developmentEncoder() zapcore.EncoderConfig {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeDuration = zapcore.StringDurationEncoder
	return enc
}
