package command

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"github.com/beabot/beatoken/internal/cli/config"
	"github.com/beabot/beatoken/internal/cli/repl"
)

const testSecret = "0123456789abcdef0123456789abcdef-test"

func init() {
	color.NoColor = true
}

type testEnv struct {
	*Env
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.Signing.Secret = testSecret
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	var out, errOut bytes.Buffer
	env, err := NewEnv(cfg, &out, &errOut)
	if err != nil {
		t.Fatalf("NewEnv: %v", err)
	}
	return &testEnv{Env: env, out: &out, errOut: &errOut}
}

// run executes one shell line and returns what it wrote to stdout.
func (e *testEnv) run(t *testing.T, line string) (string, error) {
	t.Helper()
	args, err := repl.SplitArgs(line)
	if err != nil {
		t.Fatalf("SplitArgs(%q): %v", line, err)
	}
	e.out.Reset()
	err = NewShellExecutor(e.Env).Execute(context.Background(), args)
	return e.out.String(), err
}

// mustRun is run that fails the test on error.
func (e *testEnv) mustRun(t *testing.T, line string) string {
	t.Helper()
	out, err := e.run(t, line)
	if err != nil {
		t.Fatalf("%s: %v", line, err)
	}
	return out
}

// generate issues a token through the shell and returns the envelope.
func (e *testEnv) generate(t *testing.T, flags string) string {
	t.Helper()
	var got struct {
		Token string `json:"token"`
	}
	decodeJSON(t, e.mustRun(t, "generate --format json "+flags), &got)
	return got.Token
}

func decodeJSON(t *testing.T, s string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(s), v); err != nil {
		t.Fatalf("Unmarshal(%q): %v", s, err)
	}
}

// writeConfig saves cfg to a temp file and returns its path.
func writeConfig(t *testing.T, cfg *config.CLIConfig) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path
}

// runApp runs the one-shot application with args.
func runApp(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := App(nil)
	app.Writer = &out
	app.ErrWriter = &errOut
	err = app.Run(append([]string{"beatoken-cli"}, args...))
	return out.String(), errOut.String(), err
}
