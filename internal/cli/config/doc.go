// Package config defines the beatoken-cli configuration.
//
//   - spec.go: CLIConfig and its defaults (~/.beatoken/cli.yaml)
//   - loader.go: layered loading through confloader, saving, validation
//   - secret.go: resolving the signing secret
package config
