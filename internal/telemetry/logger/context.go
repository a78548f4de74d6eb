package logger

import "context"

type contextKey string

const (
	loggerKey    contextKey = "beatoken.logger"
	requestIDKey contextKey = "beatoken.request_id"
	commandKey   contextKey = "beatoken.command"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the context logger, or Default.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRequestID tags the context with a request id. The interactive shell
// assigns one per input line.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithCommand tags the context with the CLI command being run.
func WithCommand(ctx context.Context, cmd string) context.Context {
	return context.WithValue(ctx, commandKey, cmd)
}

// CommandFromContext returns the command name, or "".
func CommandFromContext(ctx context.Context) string {
	cmd, _ := ctx.Value(commandKey).(string)
	return cmd
}

// L returns the context logger enriched with the request id and command.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := RequestIDFromContext(ctx); id != "" {
		l = l.With("request_id", id)
	}
	if cmd := CommandFromContext(ctx); cmd != "" {
		l = l.With("command", cmd)
	}
	return l
}
