package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// SecretLength is the size of generated signing secrets in bytes.
const SecretLength = 32

// GenerateSecret returns length random bytes from crypto/rand.
func GenerateSecret(length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("secret length must be positive, got %d", length)
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// encodedPrefix marks a base64url-encoded secret.
const encodedPrefix = "base64:"

// EncodeSecret renders a secret for a config file or secret file.
func EncodeSecret(b []byte) string {
	return encodedPrefix + base64.RawURLEncoding.EncodeToString(b)
}

// DecodeSecret parses a configured secret. Values written by EncodeSecret
// are decoded; anything else is a passphrase taken as raw bytes.
func DecodeSecret(s string) ([]byte, error) {
	enc, ok := strings.CutPrefix(s, encodedPrefix)
	if !ok {
		return []byte(s), nil
	}
	b, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return nil, fmt.Errorf("decode secret: %w", err)
	}
	return b, nil
}
