package repl

import (
	"sort"
	"strings"
)

// Commands lists the shell commands, including subcommand forms.
var Commands = []string{
	"generate",
	"validate",
	"inspect",
	"revoke", "revoke --agent",
	"list", "list all", "list agent", "list user", "list env",
	"deploy",
	"deployments",
	"stop",
	"undeploy",
	"metrics",
	"history",
	"help",
	"exit", "quit",
}

// Completer provides command completion for the shell.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over Commands.
func NewCompleter() *Completer {
	cmds := append([]string(nil), Commands...)
	sort.Strings(cmds)
	return &Completer{commands: cmds}
}

// Complete returns the commands starting with prefix, in order.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Known reports whether name is a top-level command.
func (c *Completer) Known(name string) bool {
	for _, cmd := range c.commands {
		if cmd == name {
			return true
		}
	}
	return false
}

// Suggest returns top-level commands sharing the first letter of name.
func (c *Completer) Suggest(name string) []string {
	if name == "" {
		return nil
	}
	var out []string
	for _, cmd := range c.Complete(name[:1]) {
		if !strings.Contains(cmd, " ") {
			out = append(out, cmd)
		}
	}
	return out
}
