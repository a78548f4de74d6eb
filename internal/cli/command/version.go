package command

import (
	"github.com/urfave/cli/v2"

	"github.com/beabot/beatoken/internal/cli/output"
	"github.com/beabot/beatoken/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version, commit, build time and Go version",
		Action: func(c *cli.Context) error {
			format, err := output.ParseFormat(ParseGlobalFlags(c).Output)
			if err != nil || format == output.FormatTable {
				format = output.FormatText
			}
			return output.NewFormatter(format).Format(c.App.Writer, buildinfo.Get())
		},
	}
}
