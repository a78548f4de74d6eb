package logger

import (
	"log/slog"
	"strings"

	"github.com/beabot/beatoken/pkg/token"
)

// envelopePrefix marks a token envelope (bea_<tag>_<blob>).
const envelopePrefix = "bea_"

// Key fragments whose values are never logged.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"key",
	"credential",
	"auth",
	"bearer",
}

// Keys that carry public identifiers despite matching a pattern above.
var publicKeys = map[string]bool{
	"token_id": true,
	"token_fp": true,
}

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		if IsSensitiveValue(v) {
			return slog.String(a.Key, MaskEnvelope(v))
		}
		if v != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindAny:
		if b, ok := a.Value.Any().([]byte); ok && IsSensitiveKey(a.Key) && len(b) > 0 {
			return slog.String(a.Key, redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// MaskEnvelope keeps the envelope prefix and kind tag and hides the signed
// blob: "bea_a_eyJhbGciOi..." becomes "bea_a_***".
func MaskEnvelope(s string) string {
	if !strings.HasPrefix(s, envelopePrefix) {
		return s
	}
	rest := s[len(envelopePrefix):]
	if i := strings.IndexByte(rest, '_'); i >= 0 && i <= 8 {
		return envelopePrefix + rest[:i+1] + "***"
	}
	return envelopePrefix + "***"
}

// Fingerprint returns a short stable identifier for a token string. Equal
// tokens share a fingerprint; the token cannot be recovered from it.
func Fingerprint(s string) string {
	return "fp_" + token.Hash(s)[:12]
}

// IsSensitiveKey reports whether a key name suggests secret content.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	if publicKeys[k] {
		return false
	}
	for _, p := range sensitiveKeyPatterns {
		if strings.Contains(k, p) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether s is a token envelope.
func IsSensitiveValue(s string) bool {
	return strings.HasPrefix(s, envelopePrefix)
}
