package domain

import (
	"strings"
	"time"
)

// DeploymentIDPrefix is the prefix for deployment ids.
const DeploymentIDPrefix = "dep_"

// Provider is a hosting provider a deployment targets.
type Provider string

// Supported providers.
const (
	ProviderAWS     Provider = "aws"
	ProviderGCP     Provider = "gcp"
	ProviderAzure   Provider = "azure"
	ProviderVercel  Provider = "vercel"
	ProviderNetlify Provider = "netlify"
	ProviderCustom  Provider = "custom"
)

// ParseProvider resolves a provider name case-insensitively.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case ProviderAWS, ProviderGCP, ProviderAzure, ProviderVercel, ProviderNetlify, ProviderCustom:
		return p, nil
	}
	return "", ErrDeploymentValidation.WithDetails("unknown provider: " + s)
}

// DeploymentStatus is the lifecycle state of a deployment.
type DeploymentStatus string

// Deployment statuses.
const (
	DeploymentPending   DeploymentStatus = "pending"
	DeploymentDeploying DeploymentStatus = "deploying"
	DeploymentActive    DeploymentStatus = "active"
	DeploymentFailed    DeploymentStatus = "failed"
	DeploymentStopped   DeploymentStatus = "stopped"
)

// Deployment is an agent rolled out to an environment.
type Deployment struct {
	ID          string           `json:"id" yaml:"id"`
	AgentName   string           `json:"agent_name" yaml:"agent_name"`
	Environment string           `json:"environment" yaml:"environment"`
	Provider    Provider         `json:"provider" yaml:"provider"`
	Region      string           `json:"region" yaml:"region"`
	Status      DeploymentStatus `json:"status" yaml:"status"`
	Endpoint    string           `json:"endpoint" yaml:"endpoint"`
	TokenID     string           `json:"token_id,omitempty" yaml:"token_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" yaml:"updated_at"`

	// Metadata carries provider hints and, when a token was issued, the
	// deployment token envelope under "token".
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// MetadataToken is the metadata key holding the deployment token envelope.
const MetadataToken = "token"

// GenerateDeploymentID returns a fresh deployment id.
func GenerateDeploymentID() (string, error) {
	return generateID(DeploymentIDPrefix)
}

// Validate checks the deployment fields.
func (d *Deployment) Validate() error {
	var violations []string

	if !validHostLabel(d.AgentName) {
		violations = append(violations, "agent_name must be a DNS label")
	}
	if strings.TrimSpace(d.Environment) == "" {
		violations = append(violations, "environment is required")
	}
	if _, err := ParseProvider(string(d.Provider)); err != nil {
		violations = append(violations, "unknown provider "+string(d.Provider))
	}
	if d.Region == "" {
		violations = append(violations, "region is required")
	}

	if len(violations) > 0 {
		return ErrDeploymentValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// Clone creates a deep copy of the deployment.
func (d *Deployment) Clone() *Deployment {
	clone := *d
	if d.Metadata != nil {
		clone.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}

// validHostLabel reports whether s can be used as a DNS label (RFC 1123).
func validHostLabel(s string) bool {
	if s == "" || len(s) > 63 || s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '-' {
			return false
		}
	}
	return true
}
