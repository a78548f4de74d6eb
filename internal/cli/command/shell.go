package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/beabot/beatoken/internal/cli/config"
	"github.com/beabot/beatoken/internal/cli/repl"
	"github.com/beabot/beatoken/internal/infra/buildinfo"
	"github.com/beabot/beatoken/internal/infra/confloader"
	"github.com/beabot/beatoken/internal/telemetry/logger"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:    "shell",
		Aliases: []string{"repl"},
		Usage:   "Start an interactive shell over one in-memory token store",
		Action:  shellAction,
	}
}

func shellAction(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	ctx := c.Context

	if stop := env.watchConfig(ctx); stop != nil {
		defer stop()
	}

	fmt.Fprintf(env.Out, "beatoken %s. Type 'help' for commands, 'exit' to quit.\n", buildinfo.Version)

	r := repl.New(NewShellExecutor(env),
		repl.WithIO(env.In, env.Out),
		repl.WithHistory(repl.NewHistory(env.Config.History.File, env.Config.History.Size)),
		repl.WithLogger(env.Logger),
	)
	return r.Run(ctx)
}

// NewShellExecutor runs shell lines as commands against env.
func NewShellExecutor(env *Env) repl.Executor {
	return repl.ExecutorFunc(func(ctx context.Context, args []string) error {
		app := shellApp(env)
		return app.RunContext(ctx, append([]string{app.Name}, args...))
	})
}

// shellApp is the command set of the shell. Every command shares env.
func shellApp(env *Env) *cli.App {
	return &cli.App{
		Name:                      "beatoken",
		Usage:                     "interactive shell",
		HideVersion:               true,
		DisableSliceFlagSeparator: true,
		Writer:                    env.Out,
		ErrWriter:                 env.Out,
		Metadata:                  map[string]any{envKey: env},
		ExitErrHandler:            func(*cli.Context, error) {},
		Commands: []*cli.Command{
			generateCommand(),
			validateCommand(),
			inspectCommand(),
			revokeCommand(),
			listCommand(),
			DeployCommand(),
			deploymentsCommand(),
			stopCommand(),
			undeployCommand(),
			metricsCommand(),
		},
	}
}

func metricsCommand() *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Print token and deployment metrics in Prometheus text format",
		Action: func(c *cli.Context) error {
			env, err := envFrom(c)
			if err != nil {
				return err
			}
			return env.Metrics.WriteText(env.Out)
		},
	}
}

// watchConfig reloads log.level when the config file changes. It returns
// nil when there is no file to watch.
func (e *Env) watchConfig(ctx context.Context) func() {
	if e.ConfigPath == "" {
		return nil
	}
	if _, err := os.Stat(e.ConfigPath); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	w, err := confloader.NewWatcher(e.Logger)
	if err != nil {
		e.Logger.Warn("config watcher unavailable", "error", err)
		return nil
	}
	if err := w.Watch(e.ConfigPath); err != nil {
		e.Logger.Warn("config watcher unavailable", "path", e.ConfigPath, "error", err)
		_ = w.Close()
		return nil
	}
	w.OnChange(func(string) { e.reloadLogLevel() })
	go w.Run(ctx)

	if e.Shutdown != nil {
		e.Shutdown.OnShutdown(func(context.Context) error { return w.Close() })
	}
	return func() { _ = w.Close() }
}

func (e *Env) reloadLogLevel() {
	cfg, err := config.Load(e.ConfigPath, e.Overrides)
	if err != nil {
		e.Logger.Warn("config reload failed", "path", e.ConfigPath, "error", err)
		return
	}
	if strings.EqualFold(cfg.Log.Level, logger.GetLevel()) {
		return
	}
	logger.SetLevel(cfg.Log.Level)
	e.Logger.Info("log level changed", "level", cfg.Log.Level)
}
