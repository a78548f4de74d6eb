package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/beabot/beatoken/internal/core/codec"
	"github.com/beabot/beatoken/internal/core/domain"
	"github.com/beabot/beatoken/pkg/token"
)

// SigningSecret returns the configured signing secret. When none is
// configured it generates a random one and reports ephemeral=true.
func (c *CLIConfig) SigningSecret() (secret []byte, ephemeral bool, err error) {
	switch {
	case c.Signing.Secret != "":
		if secret, err = token.DecodeSecret(c.Signing.Secret); err != nil {
			return nil, false, domain.ErrInvalidConfig.WithCause(err)
		}
	case c.Signing.SecretFile != "":
		data, err := os.ReadFile(c.Signing.SecretFile)
		if err != nil {
			return nil, false, fmt.Errorf("read signing secret file: %w", err)
		}
		if secret, err = token.DecodeSecret(strings.TrimSpace(string(data))); err != nil {
			return nil, false, domain.ErrInvalidConfig.WithCause(err)
		}
	default:
		secret, err = token.GenerateSecret(token.SecretLength)
		if err != nil {
			return nil, false, domain.ErrInternal.WithCause(err)
		}
		return secret, true, nil
	}

	if len(secret) < codec.MinSecretLength {
		return nil, false, domain.ErrInvalidConfig.WithDetails(
			fmt.Sprintf("signing secret must be at least %d bytes", codec.MinSecretLength))
	}
	return secret, false, nil
}
