package cmap

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, DefaultShardCount},
		{-1, DefaultShardCount},
		{3, DefaultShardCount},
		{1, 1},
		{8, 8},
		{32, 32},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("shards=%d", tt.input), func(t *testing.T) {
			m := NewWithShards[string, int](tt.input)
			if len(m.shards) != tt.expected {
				t.Errorf("NewWithShards(%d) shard count = %d, want %d", tt.input, len(m.shards), tt.expected)
			}
		})
	}
}

func TestGetPop(t *testing.T) {
	m := New[string, int]()
	m.SetIfAbsent("a", 3)
	m.SetIfAbsent("b", 2)

	if v, ok := m.Get("a"); !ok || v != 3 {
		t.Errorf("Get(a) = (%d, %v), want (3, true)", v, ok)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}

	if v, ok := m.Pop("a"); !ok || v != 3 {
		t.Errorf("Pop(a) = (%d, %v), want (3, true)", v, ok)
	}
	if _, ok := m.Pop("a"); ok {
		t.Error("second Pop(a) should report absent")
	}
	if _, ok := m.Get("a"); ok {
		t.Error("Get(a) after Pop should report absent")
	}
}

func TestSetIfAbsent(t *testing.T) {
	m := New[string, int]()
	if !m.SetIfAbsent("k", 1) {
		t.Error("SetIfAbsent on empty map should succeed")
	}
	if m.SetIfAbsent("k", 2) {
		t.Error("SetIfAbsent on existing key should fail")
	}
	if v, _ := m.Get("k"); v != 1 {
		t.Errorf("Get(k) = %d, want 1", v)
	}
}

func TestModify(t *testing.T) {
	m := New[string, int]()
	m.SetIfAbsent("k", 1)

	v, ok, err := m.Modify("k", func(cur int) (int, error) { return cur + 1, nil })
	if err != nil || !ok || v != 2 {
		t.Errorf("Modify() = (%d, %v, %v), want (2, true, nil)", v, ok, err)
	}

	boom := errors.New("boom")
	_, ok, err = m.Modify("k", func(int) (int, error) { return 100, boom })
	if !ok || !errors.Is(err, boom) {
		t.Errorf("Modify(err) = (%v, %v)", ok, err)
	}
	if v, _ := m.Get("k"); v != 2 {
		t.Errorf("failed Modify changed the value to %d", v)
	}

	called := false
	_, ok, _ = m.Modify("missing", func(int) (int, error) { called = true; return 0, nil })
	if ok || called {
		t.Error("Modify on a missing key should not call fn")
	}
}

func TestRangeAndValues(t *testing.T) {
	m := New[int, string]()
	for i := 0; i < 100; i++ {
		m.SetIfAbsent(i, fmt.Sprint(i))
	}

	if got := len(m.Values()); got != 100 {
		t.Errorf("len(Values()) = %d, want 100", got)
	}

	seen := 0
	m.Range(func(int, string) bool {
		seen++
		return seen < 10
	})
	if seen != 10 {
		t.Errorf("Range visited %d entries after stop, want 10", seen)
	}
}

func TestConcurrentModify(t *testing.T) {
	m := New[string, int]()
	m.SetIfAbsent("counter", 0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Modify("counter", func(cur int) (int, error) { return cur + 1, nil })
			}
		}()
	}
	wg.Wait()

	if v, _ := m.Get("counter"); v != 5000 {
		t.Errorf("counter = %d, want 5000", v)
	}
}
