package command

import (
	"github.com/urfave/cli/v2"

	"github.com/beabot/beatoken/internal/infra/buildinfo"
	"github.com/beabot/beatoken/internal/infra/shutdown"
)

// App creates the CLI application. h receives cleanup hooks of long-running
// commands and may be nil.
func App(h *shutdown.Handler) *cli.App {
	return &cli.App{
		Name:                      "beatoken-cli",
		Usage:                     "Issue, validate and manage Bea Bot tokens",
		Version:                   buildinfo.String(),
		Flags:                     globalFlags(),
		DisableSliceFlagSeparator: true,
		Metadata:                  map[string]any{shutdownKey: h},
		Commands: []*cli.Command{
			TokenCommand(),
			DeployCommand(),
			ShellCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default ~/.beatoken/cli.yaml)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml, text",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging on stderr",
		},
	}
}

// GlobalFlags holds the global flag values.
type GlobalFlags struct {
	Config  string
	Output  string
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Config:  c.String("config"),
		Output:  c.String("output"),
		Verbose: c.Bool("verbose"),
	}
}

// overrides maps explicitly set global flags onto config keys.
func (f *GlobalFlags) overrides() map[string]any {
	m := map[string]any{}
	if f.Output != "" {
		m["output"] = f.Output
	}
	if f.Verbose {
		m["log.level"] = "debug"
	}
	return m
}
