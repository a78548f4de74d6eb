package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/beabot/beatoken/internal/infra/confloader"
	"github.com/beabot/beatoken/internal/telemetry/logger"
)

// Dir is the per-user state directory, relative to the home directory.
const Dir = ".beatoken"

// DefaultConfigPath returns ~/.beatoken/cli.yaml.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), Dir, "cli.yaml")
}

// DefaultHistoryPath returns ~/.beatoken/history.
func DefaultHistoryPath() string {
	return filepath.Join(homeDir(), Dir, "history")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Load builds the CLI configuration from defaults, the YAML file at path,
// BEATOKEN_* environment variables and overrides, in that order.
//
// An empty path means DefaultConfigPath, which may be absent. An explicit
// path must exist.
func Load(path string, overrides map[string]any) (*CLIConfig, error) {
	fileOpt := confloader.WithConfigFile(path)
	if path == "" {
		fileOpt = confloader.WithOptionalConfigFile(DefaultConfigPath())
	}

	l := confloader.NewLoader(
		confloader.WithDefaults(defaultsMap()),
		fileOpt,
		confloader.WithOverrides(overrides),
	)

	cfg := &CLIConfig{}
	if err := l.Load(cfg); err != nil {
		return nil, err
	}

	cfg.History.File = expandHome(cfg.History.File)
	cfg.Signing.SecretFile = expandHome(cfg.Signing.SecretFile)

	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Verify checks the configuration values.
func (c *CLIConfig) Verify() error {
	var problems []string

	switch c.Output {
	case OutputTable, OutputJSON, OutputYAML, OutputText:
	default:
		problems = append(problems, fmt.Sprintf("output: unknown format %q", c.Output))
	}
	if c.Signing.Secret != "" && c.Signing.SecretFile != "" {
		problems = append(problems, "signing: set only one of secret and secretfile")
	}
	if _, err := c.DefaultLifetime(); err != nil {
		problems = append(problems, fmt.Sprintf("tokens.lifetime: %v", err))
	}
	if !logger.ValidLevel(c.Log.Level) {
		problems = append(problems, fmt.Sprintf("log.level: unknown level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format: unknown format %q", c.Log.Format))
	}
	if c.History.Size < 0 {
		problems = append(problems, "history.size: must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Sanitize returns a copy safe to print: the inline secret is masked.
func (c *CLIConfig) Sanitize() *CLIConfig {
	out := *c
	if out.Signing.Secret != "" {
		out.Signing.Secret = "***REDACTED***"
	}
	return &out
}

func expandHome(p string) string {
	if p == "~" {
		return homeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(homeDir(), p[2:])
	}
	return p
}
