package repl

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/beabot/beatoken/internal/telemetry/logger"
)

func init() {
	color.NoColor = true
}

type recorder struct {
	calls      [][]string
	requestIDs []string
	err        error
}

func (r *recorder) Execute(ctx context.Context, args []string) error {
	r.calls = append(r.calls, args)
	r.requestIDs = append(r.requestIDs, logger.RequestIDFromContext(ctx))
	return r.err
}

func run(t *testing.T, exec Executor, input string, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithIO(strings.NewReader(input), &out)}, opts...)
	if err := New(exec, opts...).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "quit\n"},
		{"EOF", ""},
		{"exit stops reading", "exit\ngenerate\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			out := run(t, rec, tt.input)
			if len(rec.calls) != 0 {
				t.Errorf("executor called with %v", rec.calls)
			}
			if !strings.HasPrefix(out, Prompt) {
				t.Errorf("output %q does not start with the prompt", out)
			}
		})
	}
}

func TestREPL_Run_Dispatch(t *testing.T) {
	rec := &recorder{}
	run(t, rec, "\n\ngenerate --type api --env \"qa eu\"\n  list agent agent-x  \nexit\n")

	want := [][]string{
		{"generate", "--type", "api", "--env", "qa eu"},
		{"list", "agent", "agent-x"},
	}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	for i, id := range rec.requestIDs {
		if id == "" {
			t.Errorf("call %d has no request id", i)
		}
	}
	if rec.requestIDs[0] == rec.requestIDs[1] {
		t.Error("request ids repeat across lines")
	}
}

func TestREPL_Run_LastLineWithoutNewline(t *testing.T) {
	rec := &recorder{}
	run(t, rec, "metrics")
	if len(rec.calls) != 1 || rec.calls[0][0] != "metrics" {
		t.Fatalf("calls = %v", rec.calls)
	}
}

func TestREPL_Run_Errors(t *testing.T) {
	rec := &recorder{err: errors.New("boom")}
	out := run(t, rec, "validate x\nvalidat x\ngenerate \"oops\nexit\n")

	for _, want := range []string{
		"Error: boom",
		`Error: unknown command "validat"`,
		"Did you mean: validate",
		"Error: unterminated \" quote",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if len(rec.calls) != 1 {
		t.Errorf("executor called %d times, want 1", len(rec.calls))
	}
}

func TestREPL_Run_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(&recorder{}, WithIO(blockingReader{}, &bytes.Buffer{}))
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }

func TestREPL_History(t *testing.T) {
	file := filepath.Join(t.TempDir(), "history")

	run(t, &recorder{}, "metrics\nhelp\nexit\n", WithHistory(NewHistory(file, 10)))

	h := NewHistory(file, 10)
	if err := h.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff([]string{"metrics", "help", "exit"}, h.Entries()); diff != "" {
		t.Errorf("saved history mismatch (-want +got):\n%s", diff)
	}

	out := run(t, &recorder{}, "history\nexit\n", WithHistory(NewHistory(file, 10)))
	if !strings.Contains(out, "    1  metrics") || !strings.Contains(out, "    4  history") {
		t.Errorf("history output:\n%s", out)
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"generate", []string{"generate"}, false},
		{"  a   b\tc ", []string{"a", "b", "c"}, false},
		{`deploy --meta "team=core ops"`, []string{"deploy", "--meta", "team=core ops"}, false},
		{`a 'b "c"'`, []string{"a", `b "c"`}, false},
		{`a b\ c`, []string{"a", "b c"}, false},
		{`a ''`, []string{"a", ""}, false},
		{`a 'b`, nil, true},
		{`a \`, nil, true},
		{"   ", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := SplitArgs(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitArgs(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitArgs(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
