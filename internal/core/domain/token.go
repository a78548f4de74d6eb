package domain

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Record constraints.
const (
	// TokenIDPrefix is the prefix for token ids.
	TokenIDPrefix = "tok_"

	MaxEnvironmentLength = 64
	MaxAssociationLength = 128
	MaxMetadataKeyLength = 64
	MaxMetadataValueLen  = 1024
	MaxMetadataEntries   = 64
)

// Record is the authoritative metadata of an issued token.
//
// Records are immutable once issued. The store hands out clones; the only
// lifecycle transition is revocation, which deletes the record.
type Record struct {
	// ID is the token id: tok_{ulid_lowercase}, 30 characters.
	ID string `json:"id" yaml:"id"`

	Kind        Kind   `json:"kind" yaml:"kind"`
	Environment string `json:"environment" yaml:"environment"`

	// CreatedAt and ExpiresAt are whole seconds, UTC. A nil ExpiresAt never expires.
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`

	AgentID string `json:"agent_id,omitempty" yaml:"agent_id,omitempty"`
	UserID  string `json:"user_id,omitempty" yaml:"user_id,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// GenerateTokenID returns a fresh token id.
//
// Ids come from the process-wide monotonic ULID source, so they are strictly
// increasing within a process and never reused after revocation.
func GenerateTokenID() (string, error) {
	return generateID(TokenIDPrefix)
}

func generateID(prefix string) (string, error) {
	id, err := ulid.New(ulid.Now(), ulid.DefaultEntropy())
	if err != nil {
		return "", ErrIDExhausted.WithCause(err)
	}
	return prefix + strings.ToLower(id.String()), nil
}

// IsValidTokenID checks if s has the token id format.
func IsValidTokenID(s string) bool {
	if !strings.HasPrefix(s, TokenIDPrefix) || len(s) != len(TokenIDPrefix)+ulid.EncodedSize {
		return false
	}
	_, err := ulid.ParseStrict(strings.ToUpper(s[len(TokenIDPrefix):]))
	return err == nil
}

// IsExpired reports whether the record is expired at now.
// A token expires at the instant ExpiresAt is reached.
func (r *Record) IsExpired(now time.Time) bool {
	if r.ExpiresAt == nil {
		return false
	}
	return !now.Before(*r.ExpiresAt)
}

// NormalizedEnvironment returns the environment name used for scoping.
func (r *Record) NormalizedEnvironment() string {
	return NormalizeEnvironment(r.Environment)
}

// Validate checks the record against its constraints.
func (r *Record) Validate() error {
	var violations []string

	if r.Kind == "" {
		violations = append(violations, "kind is required")
	}
	if strings.TrimSpace(r.Environment) == "" {
		violations = append(violations, "environment is required")
	}
	if len(r.Environment) > MaxEnvironmentLength {
		violations = append(violations, "environment exceeds 64 characters")
	}
	if len(r.AgentID) > MaxAssociationLength {
		violations = append(violations, "agent_id exceeds 128 characters")
	}
	if len(r.UserID) > MaxAssociationLength {
		violations = append(violations, "user_id exceeds 128 characters")
	}
	if r.ExpiresAt != nil && r.ExpiresAt.Before(r.CreatedAt) {
		violations = append(violations, "expires_at precedes created_at")
	}
	if len(r.Metadata) > MaxMetadataEntries {
		violations = append(violations, "metadata exceeds 64 entries")
	}
	for k, v := range r.Metadata {
		if k == "" {
			violations = append(violations, "metadata key is empty")
			break
		}
		if len(k) > MaxMetadataKeyLength {
			violations = append(violations, "metadata key exceeds 64 characters")
			break
		}
		if len(v) > MaxMetadataValueLen {
			violations = append(violations, "metadata value exceeds 1KB")
			break
		}
	}

	if len(violations) > 0 {
		return ErrTokenValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// Clone creates a deep copy of the record.
func (r *Record) Clone() *Record {
	clone := *r
	if r.ExpiresAt != nil {
		exp := *r.ExpiresAt
		clone.ExpiresAt = &exp
	}
	if r.Metadata != nil {
		clone.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}
