package config

import (
	"time"

	"github.com/beabot/beatoken/internal/core/codec"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputText  = "text"
)

// CLIConfig is the configuration of beatoken-cli.
type CLIConfig struct {
	// Output is the default output format: table, json, yaml or text.
	Output string `koanf:"output" yaml:"output"`

	Signing SigningConfig `koanf:"signing" yaml:"signing"`
	Tokens  TokensConfig  `koanf:"tokens" yaml:"tokens"`
	Log     LogConfig     `koanf:"log" yaml:"log"`
	History HistoryConfig `koanf:"history" yaml:"history"`
}

// SigningConfig holds the token signing settings.
type SigningConfig struct {
	// Issuer is written to the iss claim.
	Issuer string `koanf:"issuer" yaml:"issuer"`

	// Secret is the signing secret, inline. At most one of Secret and
	// SecretFile may be set. With neither, an ephemeral secret is generated
	// and tokens do not validate in other processes.
	Secret string `koanf:"secret" yaml:"secret,omitempty"`

	// SecretFile is a file holding the signing secret.
	SecretFile string `koanf:"secretfile" yaml:"secretfile,omitempty"`
}

// TokensConfig holds issuance defaults.
type TokensConfig struct {
	// Lifetime is the default token lifetime as a Go duration ("24h").
	// Empty means tokens do not expire unless a lifetime is requested.
	Lifetime string `koanf:"lifetime" yaml:"lifetime,omitempty"`
}

// LogConfig configures diagnostics on stderr.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// HistoryConfig configures the interactive shell history.
type HistoryConfig struct {
	File string `koanf:"file" yaml:"file"`
	Size int    `koanf:"size" yaml:"size"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Output:  OutputTable,
		Signing: SigningConfig{Issuer: codec.DefaultIssuer},
		Log:     LogConfig{Level: "warn", Format: "text"},
		History: HistoryConfig{File: DefaultHistoryPath(), Size: 1000},
	}
}

// defaultsMap is Default in the shape confloader layers take.
func defaultsMap() map[string]any {
	d := Default()
	return map[string]any{
		"output":         d.Output,
		"signing.issuer": d.Signing.Issuer,
		"log.level":      d.Log.Level,
		"log.format":     d.Log.Format,
		"history.file":   d.History.File,
		"history.size":   d.History.Size,
	}
}

// DefaultLifetime parses Tokens.Lifetime. It returns nil when unset.
func (c *CLIConfig) DefaultLifetime() (*time.Duration, error) {
	if c.Tokens.Lifetime == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(c.Tokens.Lifetime)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
