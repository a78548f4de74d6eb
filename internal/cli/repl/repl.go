package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/beabot/beatoken/internal/cli/output"
	"github.com/beabot/beatoken/internal/telemetry/logger"
)

// Prompt is printed before each line is read.
const Prompt = "beatoken> "

// Executor runs one shell line, already split into arguments.
type Executor interface {
	Execute(ctx context.Context, args []string) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, args []string) error

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, args []string) error {
	return f(ctx, args)
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	exec      Executor
	completer *Completer
	history   *History
	logger    logger.Logger
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory sets the history store. The default keeps history in memory.
func WithHistory(h *History) Option {
	return func(r *REPL) { r.history = h }
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(r *REPL) { r.logger = log }
}

// New creates a REPL dispatching lines to exec.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		exec:      exec,
		completer: NewCompleter(),
		history:   NewHistory("", DefaultHistorySize),
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until exit, quit, EOF or ctx is done. History is loaded
// before the first prompt and saved on return.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		r.logger.Warn("load history failed", "error", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			r.logger.Warn("save history failed", "error", err)
		}
	}()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go r.read(lines, readErr)

	for {
		fmt.Fprint(r.output, Prompt)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.output)
			return nil
		case err := <-readErr:
			fmt.Fprintln(r.output)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case line = <-lines:
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		if line == "exit" || line == "quit" {
			return nil
		}
		r.execute(ctx, line)
	}
}

// read feeds lines from input until it fails.
func (r *REPL) read(lines chan<- string, errc chan<- error) {
	reader := bufio.NewReader(r.input)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			lines <- line
		}
		if err != nil {
			errc <- err
			return
		}
	}
}

func (r *REPL) execute(ctx context.Context, line string) {
	args, err := SplitArgs(line)
	if err != nil {
		output.PrintError(r.output, err)
		return
	}

	switch {
	case args[0] == "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%5d  %s\n", i+1, entry)
		}
		return
	case !r.completer.Known(args[0]):
		output.PrintError(r.output, fmt.Errorf("unknown command %q", args[0]))
		if s := r.completer.Suggest(args[0]); len(s) > 0 {
			fmt.Fprintf(r.output, "Did you mean: %s\n", strings.Join(s, ", "))
		}
		return
	}

	ctx = logger.WithRequestID(ctx, ulid.Make().String())
	ctx = logger.WithCommand(ctx, args[0])
	if err := r.exec.Execute(ctx, args); err != nil {
		output.PrintError(r.output, err)
	}
}

// SplitArgs splits a line on whitespace, honouring single and double quotes
// and backslash escapes outside single quotes.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   rune
		escaped bool
	)

	for _, c := range line {
		switch {
		case escaped:
			cur.WriteRune(c)
			escaped = false
		case c == '\\' && quote != '\'':
			escaped = true
			inArg = true
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteRune(c)
			}
		case c == '"' || c == '\'':
			quote = c
			inArg = true
		case c == ' ' || c == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(c)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inArg {
		args = append(args, cur.String())
	}
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	return args, nil
}
