// Package repl provides the interactive shell of beatoken-cli.
//
// The shell keeps one process alive across lines, so tokens generated in it
// can be validated, listed and revoked against the same in-memory store:
//
//   - repl.go: read loop, argument splitting and dispatch to an Executor
//   - completer.go: command names for completion and suggestions
//   - history.go: command history persisted to ~/.beatoken/history
package repl
