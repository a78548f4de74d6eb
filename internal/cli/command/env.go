package command

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/beabot/beatoken/internal/cli/config"
	"github.com/beabot/beatoken/internal/cli/output"
	"github.com/beabot/beatoken/internal/core/codec"
	"github.com/beabot/beatoken/internal/core/service"
	"github.com/beabot/beatoken/internal/infra/shutdown"
	"github.com/beabot/beatoken/internal/storage/memory"
	"github.com/beabot/beatoken/internal/telemetry/logger"
	"github.com/beabot/beatoken/internal/telemetry/metric"
)

// Metadata keys on the cli.App.
const (
	envKey      = "beatoken.env"
	shutdownKey = "beatoken.shutdown"
)

// Env is everything a command needs: configuration, services over one
// in-memory store, and the streams to write to.
type Env struct {
	Config     *config.CLIConfig
	ConfigPath string
	Overrides  map[string]any

	Tokens      *service.TokenService
	Deployments *service.DeploymentService
	Metrics     *metric.Registry
	Logger      logger.Logger
	Shutdown    *shutdown.Handler

	// Lifetime is the default token lifetime; nil means no expiry.
	Lifetime *time.Duration

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
	Clock  func() time.Time
}

// NewEnv wires the services for cfg. The signing secret is resolved here
// and never leaves the signer.
func NewEnv(cfg *config.CLIConfig, out, errOut io.Writer) (*Env, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: errOut,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logger.SetDefault(log)

	lifetime, err := cfg.DefaultLifetime()
	if err != nil {
		return nil, fmt.Errorf("tokens.lifetime: %w", err)
	}

	secret, ephemeral, err := cfg.SigningSecret()
	if err != nil {
		return nil, err
	}
	if ephemeral {
		output.Warnf(errOut, "no signing secret configured; tokens from this run cannot be verified by another process")
	}
	signer, err := codec.NewHMACSigner(secret)
	if err != nil {
		return nil, err
	}

	store := memory.New()
	metrics := metric.NewRegistry()
	if err := metrics.TrackLiveTokens(store.Count); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	tokens, err := service.NewTokenService(store, service.TokenServiceConfig{
		Signer:  signer,
		Issuer:  cfg.Signing.Issuer,
		Logger:  log,
		Metrics: metrics,
	})
	if err != nil {
		return nil, err
	}
	deployments := service.NewDeploymentService(memory.NewDeploymentStore(), tokens, service.DeploymentServiceConfig{
		Logger:  log,
		Metrics: metrics,
	})

	log.Debug("cli environment ready", "issuer", cfg.Signing.Issuer, "ephemeral_secret", ephemeral)

	return &Env{
		Config:      cfg,
		Tokens:      tokens,
		Deployments: deployments,
		Metrics:     metrics,
		Logger:      log,
		Lifetime:    lifetime,
		In:          os.Stdin,
		Out:         out,
		ErrOut:      errOut,
		Clock:       time.Now,
	}, nil
}

// loadConfig loads the configuration named by the global flags.
func loadConfig(c *cli.Context) (*config.CLIConfig, string, map[string]any, error) {
	flags := ParseGlobalFlags(c)
	overrides := flags.overrides()

	cfg, err := config.Load(flags.Config, overrides)
	if err != nil {
		return nil, "", nil, err
	}

	path := flags.Config
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return cfg, path, overrides, nil
}

// envFrom returns the Env of the running app, building it on first use.
func envFrom(c *cli.Context) (*Env, error) {
	if env, ok := c.App.Metadata[envKey].(*Env); ok {
		return env, nil
	}

	cfg, path, overrides, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	env, err := NewEnv(cfg, c.App.Writer, c.App.ErrWriter)
	if err != nil {
		return nil, err
	}
	env.ConfigPath = path
	env.Overrides = overrides
	env.Shutdown, _ = c.App.Metadata[shutdownKey].(*shutdown.Handler)

	c.App.Metadata[envKey] = env
	return env, nil
}

// render writes v in the command's --format, or the configured output.
func (e *Env) render(c *cli.Context, v any) error {
	return e.renderOr(c, v, e.Config.Output)
}

// renderOr is render with a command-specific default. An explicit --format
// or global --output still wins.
func (e *Env) renderOr(c *cli.Context, v any, fallback string) error {
	name := fallback
	if o, ok := e.Overrides["output"].(string); ok && o != "" {
		name = o
	}
	if c.IsSet("format") {
		name = c.String("format")
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return err
	}
	return output.NewFormatter(format).Format(e.Out, v)
}

// parseMetadata turns KEY=VALUE pairs into a map.
func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("metadata %q: want KEY=VALUE", p)
		}
		m[k] = v
	}
	return m, nil
}

// requireArg returns the first positional argument.
func requireArg(c *cli.Context, name string) (string, error) {
	arg := c.Args().First()
	if arg == "" {
		return "", fmt.Errorf("%s required", name)
	}
	return arg, nil
}
