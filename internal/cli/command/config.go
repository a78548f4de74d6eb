package command

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/beabot/beatoken/internal/cli/config"
	"github.com/beabot/beatoken/internal/cli/output"
	"github.com/beabot/beatoken/pkg/token"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration with secrets masked",
				Action: configShow,
			},
			{
				Name:  "init",
				Usage: "Write a config file with a freshly generated signing secret",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
			{
				Name:   "validate",
				Usage:  "Validate the configuration and signing secret",
				Action: configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg, path, _, err := loadConfig(c)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	// Configuration reads best as YAML; tables and text have no layout for it.
	if format == output.FormatTable || format == output.FormatText {
		format = output.FormatYAML
		fmt.Fprintf(c.App.Writer, "# %s\n", path)
	}
	return output.NewFormatter(format).Format(c.App.Writer, cfg.Sanitize())
}

func configInit(c *cli.Context) error {
	path := ParseGlobalFlags(c).Config
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	secret, err := token.GenerateSecret(token.SecretLength)
	if err != nil {
		return err
	}
	cfg := config.Default()
	cfg.Signing.Secret = token.EncodeSecret(secret)

	if err := config.Save(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s with a new signing secret\n", path)
	return nil
}

func configValidate(c *cli.Context) error {
	cfg, path, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	_, ephemeral, err := cfg.SigningSecret()
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Configuration OK (%s)\n", path)
	if ephemeral {
		output.Warnf(c.App.Writer, "no signing secret configured; an ephemeral one is generated per run")
	}
	return nil
}
