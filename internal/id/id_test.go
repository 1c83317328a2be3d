package id

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDUnique(t *testing.T) {
	var gen UUID
	seen := make(map[string]bool)
	for range 5000 {
		v := gen.New()
		if _, err := uuid.Parse(v); err != nil {
			t.Fatalf("New() = %q is not a UUID: %v", v, err)
		}
		if seen[v] {
			t.Fatalf("duplicate id %q", v)
		}
		seen[v] = true
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("chat", &Sequence{})
	if got := gen.New(); got != "chat_1" {
		t.Errorf("New() = %q, want chat_1", got)
	}

	got := Prefixed("msg", UUID{}).New()
	if !strings.HasPrefix(got, "msg_") {
		t.Errorf("New() = %q, want msg_ prefix", got)
	}
}

func TestSequence(t *testing.T) {
	s := &Sequence{Prefix: "chat"}
	for _, want := range []string{"chat-1", "chat-2", "chat-3"} {
		if got := s.New(); got != want {
			t.Errorf("New() = %q, want %q", got, want)
		}
	}
}

func TestSequenceConcurrent(t *testing.T) {
	s := &Sequence{}
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]bool)
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				v := s.New()
				mu.Lock()
				if seen[v] {
					t.Errorf("duplicate id %q", v)
				}
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != 800 {
		t.Errorf("got %d ids, want 800", len(seen))
	}
}
