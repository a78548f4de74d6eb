package command

import (
	"github.com/urfave/cli/v2"

	"github.com/beabot/beatoken/internal/cli/output"
	"github.com/beabot/beatoken/internal/core/domain"
	"github.com/beabot/beatoken/internal/core/service"
)

// DeployCommand returns the deploy command.
func DeployCommand() *cli.Command {
	return &cli.Command{
		Name:      "deploy",
		Usage:     "Deploy an agent to an environment",
		ArgsUsage: "AGENT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "env",
				Aliases:  []string{"e"},
				Usage:    "Target environment",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "provider",
				Aliases:  []string{"p"},
				Usage:    "Provider: aws, gcp, azure, vercel, netlify, custom",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "region",
				Aliases: []string{"r"},
				Value:   "global",
				Usage:   "Provider region",
			},
			&cli.StringFlag{
				Name:    "domain",
				Aliases: []string{"d"},
				Usage:   "Custom domain; overrides the environment host",
			},
			&cli.BoolFlag{
				Name:  "token",
				Value: true,
				Usage: "Issue a deployment token (--token=false to skip)",
			},
			&cli.StringSliceFlag{
				Name:    "meta",
				Aliases: []string{"m"},
				Usage:   "Metadata as KEY=VALUE pairs",
			},
			formatFlag(),
		},
		Action: deployAction,
	}
}

func deployAction(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}
	agent, err := requireArg(c, "agent name")
	if err != nil {
		return err
	}
	meta, err := parseMetadata(c.StringSlice("meta"))
	if err != nil {
		return err
	}
	if e := domain.ParseEnvironment(c.String("env")); e.IsCustom() && c.String("domain") == "" {
		output.Warnf(env.ErrOut, "%q is a custom environment; serving at %s", e.Name(), e.Host(agent))
	}

	d, err := env.Deployments.Deploy(c.Context, &service.DeployRequest{
		AgentName:   agent,
		Environment: c.String("env"),
		Provider:    c.String("provider"),
		Region:      c.String("region"),
		Domain:      c.String("domain"),
		IssueToken:  c.Bool("token"),
		Metadata:    meta,
	})
	if err != nil {
		return err
	}
	return env.render(c, output.DeploymentView{Deployment: d})
}

func deploymentsCommand() *cli.Command {
	return &cli.Command{
		Name:  "deployments",
		Usage: "List deployments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "agent",
				Aliases: []string{"a"},
				Usage:   "Only deployments of this agent",
			},
			&cli.StringFlag{
				Name:    "env",
				Aliases: []string{"e"},
				Usage:   "Only deployments to this environment",
			},
			formatFlag(),
		},
		Action: func(c *cli.Context) error {
			env, err := envFrom(c)
			if err != nil {
				return err
			}
			list, err := env.Deployments.List(c.Context, service.DeploymentFilter{
				AgentName:   c.String("agent"),
				Environment: c.String("env"),
			})
			if err != nil {
				return err
			}
			return env.render(c, output.DeploymentList(list))
		},
	}
}

func stopCommand() *cli.Command {
	return &cli.Command{
		Name:      "stop",
		Usage:     "Stop an active deployment",
		ArgsUsage: "DEPLOYMENT_ID",
		Flags:     []cli.Flag{formatFlag()},
		Action: func(c *cli.Context) error {
			env, err := envFrom(c)
			if err != nil {
				return err
			}
			id, err := requireArg(c, "deployment id")
			if err != nil {
				return err
			}
			d, err := env.Deployments.Stop(c.Context, id)
			if err != nil {
				return err
			}
			return env.render(c, output.DeploymentView{Deployment: d})
		},
	}
}

func undeployCommand() *cli.Command {
	return &cli.Command{
		Name:      "undeploy",
		Usage:     "Delete a deployment and revoke its token",
		ArgsUsage: "DEPLOYMENT_ID",
		Flags:     []cli.Flag{formatFlag()},
		Action: func(c *cli.Context) error {
			env, err := envFrom(c)
			if err != nil {
				return err
			}
			id, err := requireArg(c, "deployment id")
			if err != nil {
				return err
			}
			d, err := env.Deployments.Delete(c.Context, id)
			if err != nil {
				return err
			}
			return env.render(c, output.DeploymentView{Deployment: d})
		},
	}
}
