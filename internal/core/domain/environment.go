package domain

import "strings"

// Well-known environment names.
const (
	EnvProduction  = "production"
	EnvStaging     = "staging"
	EnvDevelopment = "development"
)

// PlatformDomain is the apex domain deployments are served under.
const PlatformDomain = "bea-bot.app"

// Environment is a deployment environment. Anything other than the three
// well-known names is a custom environment.
type Environment struct {
	name   string
	custom bool
}

// ParseEnvironment parses an environment name. Well-known names and their
// short aliases match case-insensitively; other values are custom and kept
// verbatim.
func ParseEnvironment(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case EnvProduction, "prod":
		return Environment{name: EnvProduction}
	case EnvStaging, "stage":
		return Environment{name: EnvStaging}
	case EnvDevelopment, "dev":
		return Environment{name: EnvDevelopment}
	default:
		return Environment{name: s, custom: true}
	}
}

// NormalizeEnvironment returns the canonical name used for scoping and listing.
func NormalizeEnvironment(s string) string {
	return ParseEnvironment(s).Name()
}

// Name returns the canonical environment name.
func (e Environment) Name() string {
	return e.name
}

// IsCustom reports whether e is not one of the well-known environments.
func (e Environment) IsCustom() bool {
	return e.custom
}

// Host returns the hostname an agent is served at in this environment.
func (e Environment) Host(agent string) string {
	switch {
	case e.custom:
		return agent + "." + e.name + "." + PlatformDomain
	case e.name == EnvProduction:
		return agent + "." + PlatformDomain
	case e.name == EnvStaging:
		return agent + ".staging." + PlatformDomain
	default:
		return agent + ".dev." + PlatformDomain
	}
}

// String returns the canonical environment name.
func (e Environment) String() string {
	return e.name
}
