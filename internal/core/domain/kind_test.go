package domain

import (
	"errors"
	"testing"
)

func TestKindRegistry_Builtins(t *testing.T) {
	r := NewKindRegistry()

	tests := []struct {
		kind Kind
		tag  byte
	}{
		{KindBearer, 'b'},
		{KindAPI, 'a'},
		{KindDeployment, 'd'},
		{KindSession, 's'},
	}

	for _, tt := range tests {
		tag, ok := r.Tag(tt.kind)
		if !ok || tag != tt.tag {
			t.Errorf("Tag(%s) = %q, %v; want %q", tt.kind, tag, ok, tt.tag)
		}
		kind, ok := r.Lookup(tt.tag)
		if !ok || kind != tt.kind {
			t.Errorf("Lookup(%q) = %s, %v; want %s", tt.tag, kind, ok, tt.kind)
		}
	}

	if _, ok := r.Lookup('x'); ok {
		t.Error("Lookup('x') should fail on a fresh registry")
	}
}

func TestKindRegistry_Register(t *testing.T) {
	r := NewKindRegistry()

	if err := r.Register("webhook", 'w'); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if kind, ok := r.Lookup('w'); !ok || kind != "webhook" {
		t.Errorf("Lookup('w') = %s, %v", kind, ok)
	}

	tests := []struct {
		name string
		kind Kind
		tag  byte
		want *DomainError
	}{
		{"duplicate kind", "webhook", 'x', ErrKindConflict},
		{"duplicate tag", "other", 'b', ErrKindConflict},
		{"uppercase tag", "other", 'X', ErrKindInvalid},
		{"separator tag", "other", '_', ErrKindInvalid},
		{"empty name", "", 'y', ErrKindInvalid},
		{"bad name", "Web Hook", 'y', ErrKindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.kind, tt.tag)
			if !errors.Is(err, tt.want) {
				t.Errorf("Register(%q, %q) = %v, want %v", tt.kind, tt.tag, err, tt.want)
			}
		})
	}
}

func TestKindRegistry_Parse(t *testing.T) {
	r := NewKindRegistry()

	kind, err := r.Parse(" API ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if kind != KindAPI {
		t.Errorf("Parse() = %s, want %s", kind, KindAPI)
	}

	if _, err := r.Parse("refresh"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Parse(refresh) = %v, want ErrUnknownKind", err)
	}
}

func TestKindRegistry_Kinds(t *testing.T) {
	r := NewKindRegistry()
	got := r.Kinds()
	want := []Kind{KindAPI, KindBearer, KindDeployment, KindSession}

	if len(got) != len(want) {
		t.Fatalf("Kinds() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Kinds()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
