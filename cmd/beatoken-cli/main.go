// Command beatoken-cli issues, validates and manages Bea Bot tokens.
//
// Usage:
//
//	beatoken-cli token generate --type api --env production
//	beatoken-cli token generate --env staging --format json
//	beatoken-cli token inspect bea_a_...
//	beatoken-cli deploy --env production --provider aws support-bot
//	beatoken-cli shell
//
// Tokens are held in process memory. Use the shell to validate, list and
// revoke tokens issued in the same session, and set signing.secret in
// ~/.beatoken/cli.yaml (see "config init") so that tokens verify across
// runs.
package main

import (
	"context"
	"os"
	"time"

	"github.com/beabot/beatoken/internal/cli/command"
	"github.com/beabot/beatoken/internal/cli/output"
	"github.com/beabot/beatoken/internal/infra/shutdown"
)

func main() {
	h := shutdown.NewHandler(5 * time.Second)
	ctx, stop := h.Context(context.Background())

	err := command.App(h).RunContext(ctx, os.Args)
	stop()
	if serr := h.Shutdown(); err == nil {
		err = serr
	}

	if err != nil {
		output.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
