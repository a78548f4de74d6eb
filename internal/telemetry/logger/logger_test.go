package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func newJSON(t *testing.T, level string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l, &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Unmarshal(%q): %v", buf.String(), err)
	}
	return entry
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newJSON(t, "debug")

	tests := []struct {
		level string
		log   func(string, ...any)
	}{
		{"DEBUG", l.Debug},
		{"INFO", l.Info},
		{"WARN", l.Warn},
		{"ERROR", l.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.log("issued", "kind", "api")

			entry := decode(t, buf)
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["msg"] != "issued" || entry["kind"] != "api" {
				t.Errorf("entry = %v", entry)
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := newJSON(t, "info")

	l.With("component", "token_service").Info("ready")

	if got := decode(t, buf)["component"]; got != "token_service" {
		t.Errorf("component = %v, want token_service", got)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, buf := newJSON(t, "warn")

	l.Debug("debug")
	l.Info("info")
	if buf.Len() > 0 {
		t.Fatalf("debug/info logged at warn level: %s", buf.String())
	}

	l.Warn("warn")
	if buf.Len() == 0 {
		t.Fatal("warn was filtered at warn level")
	}
}

func TestSetLevel(t *testing.T) {
	l, buf := newJSON(t, "error")

	l.Info("before")
	if buf.Len() > 0 {
		t.Fatal("info logged at error level")
	}

	SetLevel("debug")
	l.Info("after")
	if buf.Len() == 0 {
		t.Fatal("info filtered after SetLevel(debug)")
	}
	if got := GetLevel(); got != "debug" {
		t.Errorf("GetLevel() = %q, want debug", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
		valid bool
	}{
		{"debug", "debug", true},
		{"DEBUG", "debug", true},
		{"info", "info", true},
		{"warn", "warn", true},
		{"warning", "warn", true},
		{"Error", "error", true},
		{"verbose", "info", false},
		{"", "info", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			SetLevel(tt.input)
			if got := GetLevel(); got != tt.want {
				t.Errorf("SetLevel(%q); GetLevel() = %q, want %q", tt.input, got, tt.want)
			}
			if got := ValidLevel(tt.input); got != tt.valid {
				t.Errorf("ValidLevel(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != "warn" || cfg.Format != "text" || cfg.Output == nil {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	l, buf := newJSON(t, "debug")
	SetDefault(l)

	for name, fn := range map[string]func(string, ...any){
		"Debug": Debug, "Info": Info, "Warn": Warn, "Error": Error,
	} {
		buf.Reset()
		fn("message")
		if buf.Len() == 0 {
			t.Errorf("%s() produced no output", name)
		}
	}
}

func TestNop(t *testing.T) {
	l := Nop().With("k", "v").WithContext(context.Background())
	l.Error("dropped")
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Info("deployed", "agent", "support-bot")

	out := buf.String()
	if !strings.Contains(out, "deployed") || !strings.Contains(out, "agent=support-bot") {
		t.Errorf("text output = %q", out)
	}
}
