// Package command defines the beatoken-cli commands with urfave/cli/v2.
//
//   - root.go: application, global flags
//   - env.go: per-process wiring of config, signer, stores and services
//   - token.go: generate, validate, inspect, revoke, list
//   - deploy.go: deploy, deployments, stop, undeploy
//   - shell.go: interactive shell and its command set
//   - config.go: config show, init, validate
//   - version.go: version
//
// Tokens live in process memory, so one-shot commands can generate and
// inspect tokens while the full lifecycle runs inside the shell.
package command
