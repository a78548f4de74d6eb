package memory

import (
	"sort"
	"testing"
)

func TestIndex_AddRemove(t *testing.T) {
	idx := NewIndex()
	idx.Add("agent-x", "tok_1")
	idx.Add("agent-x", "tok_2")
	idx.Add("agent-x", "tok_2")
	idx.Add("agent-y", "tok_3")

	got := idx.IDs("agent-x")
	sort.Strings(got)
	if len(got) != 2 || got[0] != "tok_1" || got[1] != "tok_2" {
		t.Fatalf("IDs(agent-x) = %v", got)
	}

	idx.Remove("agent-x", "tok_1")
	idx.Remove("agent-x", "tok_2")
	idx.Remove("agent-x", "tok_2")
	idx.Remove("missing", "tok_9")

	if ids := idx.IDs("agent-x"); len(ids) != 0 {
		t.Fatalf("IDs(agent-x) = %v, want none", ids)
	}
	if len(idx.sets) != 1 {
		t.Fatalf("%d keys, want 1 (empty sets are dropped)", len(idx.sets))
	}
}

func TestIndex_EmptyKeyIgnored(t *testing.T) {
	idx := NewIndex()
	idx.Add("", "tok_1")
	if len(idx.sets) != 0 {
		t.Fatalf("empty key was indexed")
	}
	if ids := idx.IDs(""); len(ids) != 0 {
		t.Fatalf("IDs(\"\") = %v", ids)
	}
}
