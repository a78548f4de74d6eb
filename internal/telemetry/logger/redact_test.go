package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

const sampleEnvelope = "bea_a_eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiJ0b2tfMDEifQ.c2lnbmF0dXJl"

func TestRedact_Envelope(t *testing.T) {
	l, buf := newJSON(t, "info")

	l.Info("validated", "value", sampleEnvelope)

	out := buf.String()
	if strings.Contains(out, "eyJ") {
		t.Fatalf("envelope blob leaked: %s", out)
	}
	var entry map[string]any
	_ = json.Unmarshal([]byte(out), &entry)
	if entry["value"] != "bea_a_***" {
		t.Errorf("value = %v, want bea_a_***", entry["value"])
	}
}

func TestRedact_SensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})

	l.Info("config loaded",
		"signing_secret", "0123456789abcdef0123456789abcdef",
		"raw_key", []byte("secret bytes"),
		"token_id", "tok_01hqv1234567890abcdefghjkm",
		"token_fp", "fp_0123456789ab",
		"agent", "support-bot",
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	want := map[string]any{
		"signing_secret": redactedValue,
		"raw_key":        redactedValue,
		"token_id":       "tok_01hqv1234567890abcdefghjkm",
		"token_fp":       "fp_0123456789ab",
		"agent":          "support-bot",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}
}

func TestRedact_Group(t *testing.T) {
	l, buf := newJSON(t, "info")

	l.Info("nested", slog.Group("signing", "secret", "s3cr3t", "issuer", "bea-bot"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	group, ok := entry["signing"].(map[string]any)
	if !ok {
		t.Fatalf("signing = %v", entry["signing"])
	}
	if group["secret"] != redactedValue || group["issuer"] != "bea-bot" {
		t.Errorf("group = %v", group)
	}
}

func TestMaskEnvelope(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{sampleEnvelope, "bea_a_***"},
		{"bea_b_x", "bea_b_***"},
		{"bea_", "bea_***"},
		{"bea_nounderscoreatall", "bea_***"},
		{"tok_01hqv", "tok_01hqv"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := MaskEnvelope(tt.in); got != tt.want {
			t.Errorf("MaskEnvelope(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint(sampleEnvelope)
	b := Fingerprint(sampleEnvelope)
	c := Fingerprint(sampleEnvelope + "x")

	if a != b {
		t.Errorf("Fingerprint not stable: %q != %q", a, b)
	}
	if a == c {
		t.Error("different tokens share a fingerprint")
	}
	if !strings.HasPrefix(a, "fp_") || len(a) != 15 {
		t.Errorf("Fingerprint = %q", a)
	}
	if strings.Contains(a, "eyJ") {
		t.Error("fingerprint contains token material")
	}
}

func TestIsSensitive(t *testing.T) {
	keys := map[string]bool{
		"password":       true,
		"signing_secret": true,
		"api_key":        true,
		"Authorization":  true,
		"token":          true,
		"token_id":       false,
		"token_fp":       false,
		"agent":          false,
		"environment":    false,
	}
	for k, want := range keys {
		if got := IsSensitiveKey(k); got != want {
			t.Errorf("IsSensitiveKey(%q) = %v, want %v", k, got, want)
		}
	}

	if !IsSensitiveValue(sampleEnvelope) || IsSensitiveValue("tok_01") {
		t.Error("IsSensitiveValue misclassified")
	}
}
