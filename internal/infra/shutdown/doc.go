// Package shutdown coordinates process termination for beatoken-cli.
//
// A Handler turns SIGINT and SIGTERM into context cancellation and runs
// cleanup hooks, such as closing the config watcher, exactly once:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	ctx, stop := h.Context(context.Background())
//	defer stop()
//	err := app.RunContext(ctx, os.Args)
//	_ = h.Shutdown()
package shutdown
