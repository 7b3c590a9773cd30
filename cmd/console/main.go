package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/GriffinCanCode/opsconsole/internal/console"
	"github.com/GriffinCanCode/opsconsole/internal/console/shell"
	"github.com/GriffinCanCode/opsconsole/internal/display"
	"github.com/GriffinCanCode/opsconsole/internal/infrastructure/config"
	"github.com/GriffinCanCode/opsconsole/internal/infrastructure/logging"
)

// Session switching keys, handled before input reaches the line editor.
const (
	keyNewSession   = 0x14 // Ctrl+T
	keyNextSession  = 0x0e // Ctrl+N
	keyCloseSession = 0x17 // Ctrl+W
	keyQuit         = 0x11 // Ctrl+Q
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file")
	catalogPath := flag.String("catalog", "", "Path to a YAML tool catalog")
	latency := flag.Duration("latency", 0, "Simulated tool latency (overrides config)")
	logPath := flag.String("log", "", "Write logs to this file")
	flag.Parse()

	if err := run(*configPath, *catalogPath, *logPath, *latency); err != nil {
		fmt.Fprintln(os.Stderr, "console:", err)
		os.Exit(1)
	}
}

func run(configPath, catalogPath, logPath string, latency time.Duration) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if latency > 0 {
		cfg.Console.ToolLatency = config.Duration(latency)
	}

	logger := logging.NewNop()
	if logPath != "" {
		logger = logging.FromLevel(cfg.Logging.Level, cfg.Logging.Development, logPath)
	}
	defer func() { _ = logger.Sync() }()

	interpOpts := []shell.Option{shell.WithLatency(cfg.Console.ToolLatency.Std())}
	if catalogPath != "" {
		data, err := os.ReadFile(catalogPath)
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		catalog, err := shell.LoadCatalog(data)
		if err != nil {
			return err
		}
		interpOpts = append(interpOpts, shell.WithCatalog(catalog))
	}

	encoding := display.EncodeANSI
	if termenv.NewOutput(os.Stdout).Profile == termenv.Ascii {
		encoding = display.EncodePlain
	}

	fd := int(os.Stdin.Fd())
	interactive := term.IsTerminal(fd)
	if interactive {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("enter raw mode: %w", err)
		}
		defer func() {
			_ = term.Restore(fd, state)
			fmt.Println()
		}()
	}

	surfaces := display.NewRegistry(display.NewWriterSink(os.Stdout),
		display.WithEncoding(encoding),
		display.WithScrollback(cfg.Console.Scrollback),
		display.WithLogger(logger.Named("display")),
	)
	mgr := console.NewManager(surfaces.Factory(),
		console.WithLogger(logger),
		console.WithInterpreter(shell.NewInterpreter(interpOpts...)),
		console.WithProfile(console.Profile{
			User:     cfg.Console.User,
			Hostname: cfg.Console.Hostname,
			Home:     cfg.Console.Home,
		}),
		console.WithWelcome(cfg.Console.Welcome),
	)
	defer mgr.Shutdown()

	buf := make([]byte, 1024)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 && !dispatch(mgr, buf[:n], logger) {
			return nil
		}
		if errors.Is(err, io.EOF) {
			if !interactive {
				drain(mgr)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if len(mgr.Sessions()) == 0 {
			return nil
		}
	}
}

// dispatch splits a chunk at the switching keys and routes the rest to the
// active session. It reports false when the console should exit.
func dispatch(mgr *console.Manager, chunk []byte, logger *logging.Logger) bool {
	start := 0
	flush := func(end int) {
		if end > start {
			mgr.RouteInput(string(chunk[start:end]))
		}
	}
	for i, b := range chunk {
		switch b {
		case keyNewSession, keyNextSession, keyCloseSession, keyQuit:
		default:
			continue
		}
		flush(i)
		start = i + 1

		var err error
		switch b {
		case keyNewSession:
			_, err = mgr.CreateSession()
		case keyNextSession:
			err = next(mgr)
		case keyCloseSession:
			if active, ok := mgr.Active(); ok {
				err = mgr.CloseSession(active.ID)
			}
		case keyQuit:
			return false
		}
		if err != nil {
			logger.Warn("session key failed", zap.Error(err))
		}
	}
	flush(len(chunk))
	return true
}

// next activates the session after the active one, wrapping around.
func next(mgr *console.Manager) error {
	sessions := mgr.Sessions()
	for i, s := range sessions {
		if s.Active {
			return mgr.ActivateSession(sessions[(i+1)%len(sessions)].ID)
		}
	}
	if len(sessions) > 0 {
		return mgr.ActivateSession(sessions[0].ID)
	}
	return nil
}

// drain waits for outstanding tool runs when input is piped in.
func drain(mgr *console.Manager) {
	for {
		pending := 0
		for _, s := range mgr.Sessions() {
			pending += s.PendingRuns
		}
		if pending == 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}
