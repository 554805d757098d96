// Package app assembles a scrollkit run: configuration, logging, the wired
// responder session, and whichever front end the invocation asked for
// (trace replay, a scenario script, or the interactive simulator).
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tidwall/pretty"

	"github.com/dshills/scrollkit/internal/config"
	"github.com/dshills/scrollkit/internal/config/watcher"
	"github.com/dshills/scrollkit/internal/geometry"
	"github.com/dshills/scrollkit/internal/logging"
	"github.com/dshills/scrollkit/internal/script"
	"github.com/dshills/scrollkit/internal/session"
	"github.com/dshills/scrollkit/internal/sim"
	"github.com/dshills/scrollkit/internal/trace"
)

// ErrNothingToRun is returned when no trace, script, or interactive mode
// was requested.
var ErrNothingToRun = errors.New("nothing to run: pass a trace, a script, or -interactive")

// Options select what a run does.
type Options struct {
	// ConfigPath is the TOML config file. Empty means defaults.
	ConfigPath string

	// TracePath is a JSON trace to replay.
	TracePath string

	// ScriptPath is a Lua scenario to run.
	ScriptPath string

	// Interactive starts the terminal simulator.
	Interactive bool

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// Output receives reports. Defaults to os.Stdout.
	Output io.Writer
}

// Application is one assembled run.
type Application struct {
	opts    Options
	cfg     config.Config
	logger  *logging.Logger
	sess    *session.Session
	watcher *watcher.Watcher

	shutdownOnce sync.Once
}

// New loads configuration and wires the session.
func New(opts Options) (*Application, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger := logging.NewLogger(logging.LoggerConfig{
		Level:  logging.ParseLogLevel(level),
		Output: os.Stderr,
		Prefix: "scrollkit",
	})

	sess := session.New(session.Options{
		Screen: geometry.Size{
			Width:  cfg.Simulator.ScreenWidth,
			Height: cfg.Simulator.ScreenHeight,
		},
		KeyboardHeight:       cfg.Simulator.KeyboardHeight,
		PersistTaps:          cfg.PersistTaps(),
		PanResponderDisabled: cfg.Responder.PanResponderDisabled,
		SettleWindow:         cfg.SettleWindow(),
		Logger:               logger.WithComponent("responder"),
	})
	if err := sess.Attach(); err != nil {
		return nil, err
	}

	app := &Application{
		opts:   opts,
		cfg:    cfg,
		logger: logger,
		sess:   sess,
	}

	// Live reload only makes sense for a long-running interactive session.
	if opts.Interactive && opts.ConfigPath != "" {
		w, err := watcher.New(opts.ConfigPath)
		if err != nil {
			logger.Warn("config watch disabled: %v", err)
		} else {
			app.watcher = w
			go app.reloadLoop()
		}
	}

	return app, nil
}

// Session exposes the wired session.
func (a *Application) Session() *session.Session {
	return a.sess
}

// Run executes the selected front end. Exactly one runs per invocation;
// when several are requested the trace wins, then the script.
func (a *Application) Run() error {
	switch {
	case a.opts.TracePath != "":
		return a.runTrace()
	case a.opts.ScriptPath != "":
		return a.runScript()
	case a.opts.Interactive:
		simulator, err := sim.New(a.sess)
		if err != nil {
			return err
		}
		return simulator.Run()
	default:
		return ErrNothingToRun
	}
}

// Shutdown releases the watcher and the session. Safe to call twice.
func (a *Application) Shutdown() {
	a.shutdownOnce.Do(func() {
		if a.watcher != nil {
			_ = a.watcher.Close()
		}
		interactions := a.sess.Interactions.Snapshot()
		a.logger.Info("interactions: %d begun, %d ended (%d redundant ends)",
			interactions.Begins, interactions.Ends, interactions.RedundantEnds)
		a.sess.Close()
	})
}

func (a *Application) runTrace() error {
	data, err := os.ReadFile(a.opts.TracePath)
	if err != nil {
		return fmt.Errorf("reading trace %s: %w", a.opts.TracePath, err)
	}

	tr, err := trace.Parse(data)
	if err != nil {
		return err
	}
	a.logger.Info("replaying trace %q (%d steps)", tr.Name, len(tr.Steps))

	report, err := trace.Replay(tr)
	if err != nil {
		return err
	}

	_, err = a.opts.Output.Write(pretty.Pretty(report))
	return err
}

func (a *Application) runScript() error {
	engine := script.New(a.sess)
	defer engine.Close()

	a.logger.Info("running scenario %s", a.opts.ScriptPath)
	if err := engine.RunFile(a.opts.ScriptPath); err != nil {
		return err
	}

	fmt.Fprintf(a.opts.Output, "scenario %s passed (%d commands, %d log entries)\n",
		a.opts.ScriptPath, len(a.sess.Commands()), len(a.sess.Log()))
	return nil
}

// reloadLoop applies config changes to the running session.
func (a *Application) reloadLoop() {
	for {
		select {
		case ev, ok := <-a.watcher.Events():
			if !ok {
				return
			}
			cfg, err := config.Load(ev.Path)
			if err != nil {
				a.logger.Warn("config reload failed: %v", err)
				continue
			}
			a.sess.SetPersistTaps(cfg.PersistTaps())
			a.sess.SetPanResponderDisabled(cfg.Responder.PanResponderDisabled)
			a.logger.Info("config reloaded: persist_taps=%s", cfg.PersistTaps())

		case err, ok := <-a.watcher.Errors():
			if !ok {
				return
			}
			a.logger.Warn("config watch error: %v", err)
		}
	}
}
