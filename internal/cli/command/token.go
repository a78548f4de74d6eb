package command

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/beabot/beatoken/internal/cli/output"
	"github.com/beabot/beatoken/internal/core/codec"
	"github.com/beabot/beatoken/internal/core/domain"
	"github.com/beabot/beatoken/internal/core/service"
)

// TokenCommand returns the token subcommand group of one-shot mode.
func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:    "token",
		Aliases: []string{"tok"},
		Usage:   "Generate and inspect tokens",
		Subcommands: []*cli.Command{
			generateCommand(),
			inspectCommand(),
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: table, json, yaml, text",
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Value:   string(domain.KindBearer),
				Usage:   "Token kind: bearer, api, deployment, session",
			},
			&cli.StringFlag{
				Name:     "env",
				Aliases:  []string{"e"},
				Usage:    "Environment (production, staging, development or custom)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "agent",
				Aliases: []string{"a"},
				Usage:   "Agent ID",
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "User ID",
			},
			&cli.DurationFlag{
				Name:    "lifetime",
				Aliases: []string{"l"},
				Usage:   "Lifetime (e.g. 24h); default from tokens.lifetime, none means no expiry",
			},
			&cli.StringSliceFlag{
				Name:    "meta",
				Aliases: []string{"m"},
				Usage:   "Metadata as KEY=VALUE pairs",
			},
			formatFlag(),
		},
		Action: generateAction,
	}
}

func generateAction(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}

	kind, err := env.Tokens.Kinds().Parse(c.String("type"))
	if err != nil {
		return err
	}
	meta, err := parseMetadata(c.StringSlice("meta"))
	if err != nil {
		return err
	}
	lifetime := env.Lifetime
	if c.IsSet("lifetime") {
		d := c.Duration("lifetime")
		lifetime = &d
	}

	resp, err := env.Tokens.Issue(c.Context, &service.IssueTokenRequest{
		Kind:        kind,
		Environment: c.String("env"),
		Lifetime:    lifetime,
		AgentID:     c.String("agent"),
		UserID:      c.String("user"),
		Metadata:    meta,
	})
	if err != nil {
		return err
	}
	return env.renderOr(c, output.NewGeneratedToken(resp.Token, resp.Record), string(output.FormatText))
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a token against the live store",
		ArgsUsage: "TOKEN",
		Flags:     []cli.Flag{formatFlag()},
		Action: func(c *cli.Context) error {
			env, err := envFrom(c)
			if err != nil {
				return err
			}
			tok, err := requireArg(c, "token")
			if err != nil {
				return err
			}
			rec, err := env.Tokens.Validate(c.Context, tok)
			if err != nil {
				return err
			}
			return env.render(c, output.NewRecordView(rec, env.Clock()))
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Verify a token's signature and show its claims without a store lookup",
		ArgsUsage: "TOKEN",
		Flags:     []cli.Flag{formatFlag()},
		Action: func(c *cli.Context) error {
			env, err := envFrom(c)
			if err != nil {
				return err
			}
			tok, err := requireArg(c, "token")
			if err != nil {
				return err
			}
			rec, err := env.Tokens.Inspect(c.Context, tok)
			if err != nil {
				return err
			}
			return env.render(c, output.NewRecordView(rec, env.Clock()))
		},
	}
}

func revokeCommand() *cli.Command {
	return &cli.Command{
		Name:      "revoke",
		Usage:     "Revoke a token by id or envelope, or every token of an agent",
		ArgsUsage: "[TOKEN_ID|TOKEN]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "agent",
				Aliases: []string{"a"},
				Usage:   "Revoke all tokens of this agent",
			},
			formatFlag(),
		},
		Action: revokeAction,
	}
}

func revokeAction(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}

	if agent := c.String("agent"); agent != "" {
		n, err := env.Tokens.RevokeByAgent(c.Context, agent)
		if err != nil {
			return err
		}
		return env.render(c, &output.RevokeResult{Count: n, Agent: agent})
	}

	arg, err := requireArg(c, "token id or --agent")
	if err != nil {
		return err
	}
	id := arg
	switch {
	case strings.HasPrefix(arg, codec.EnvelopePrefix+codec.EnvelopeSeparator):
		rec, err := env.Tokens.Inspect(c.Context, arg)
		if err != nil {
			return err
		}
		id = rec.ID
	case !domain.IsValidTokenID(arg):
		return domain.ErrTokenValidation.WithDetails("not a token id or envelope: " + arg)
	}

	rec, err := env.Tokens.Revoke(c.Context, id)
	if err != nil {
		return err
	}
	return env.render(c, &output.RevokeResult{Count: 1, IDs: []string{rec.ID}})
}

func listCommand() *cli.Command {
	sub := func(name, usage, arg string, list func(env *Env, c *cli.Context, key string) ([]*domain.Record, error)) *cli.Command {
		return &cli.Command{
			Name:      name,
			Usage:     usage,
			ArgsUsage: arg,
			Flags:     []cli.Flag{formatFlag()},
			Action: func(c *cli.Context) error {
				env, err := envFrom(c)
				if err != nil {
					return err
				}
				key, err := requireArg(c, strings.ToLower(arg))
				if err != nil {
					return err
				}
				recs, err := list(env, c, key)
				if err != nil {
					return err
				}
				return env.render(c, output.NewRecordList(recs, env.Clock()))
			},
		}
	}

	return &cli.Command{
		Name:  "list",
		Usage: "List live tokens",
		Subcommands: []*cli.Command{
			{
				Name:  "all",
				Usage: "List every live token",
				Flags: []cli.Flag{formatFlag()},
				Action: func(c *cli.Context) error {
					env, err := envFrom(c)
					if err != nil {
						return err
					}
					recs, err := env.Tokens.ListAll(c.Context)
					if err != nil {
						return err
					}
					return env.render(c, output.NewRecordList(recs, env.Clock()))
				},
			},
			sub("agent", "List tokens of an agent", "AGENT_ID", func(env *Env, c *cli.Context, key string) ([]*domain.Record, error) {
				return env.Tokens.ListByAgent(c.Context, key)
			}),
			sub("user", "List tokens of a user", "USER_ID", func(env *Env, c *cli.Context, key string) ([]*domain.Record, error) {
				return env.Tokens.ListByUser(c.Context, key)
			}),
			sub("env", "List tokens of an environment", "ENVIRONMENT", func(env *Env, c *cli.Context, key string) ([]*domain.Record, error) {
				return env.Tokens.ListByEnvironment(c.Context, key)
			}),
		},
	}
}
