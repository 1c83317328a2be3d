// Package id generates opaque identifiers for chats and messages.
package id

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator produces identifiers that are unique for the lifetime of the process.
type Generator interface {
	New() string
}

// UUID generates random (version 4) UUID strings.
type UUID struct{}

// New returns a fresh UUID string.
func (UUID) New() string {
	return uuid.NewString()
}

type prefixed struct {
	prefix string
	gen    Generator
}

// Prefixed returns a generator whose ids read "<prefix>_<id>".
func Prefixed(prefix string, gen Generator) Generator {
	return prefixed{prefix: prefix, gen: gen}
}

func (p prefixed) New() string {
	return p.prefix + "_" + p.gen.New()
}

// Sequence is a deterministic counter-based generator, useful in tests.
// The zero value yields "1", "2", ...
type Sequence struct {
	Prefix string

	mu   sync.Mutex
	next int
}

// New returns the next id in the sequence.
func (s *Sequence) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	if s.Prefix == "" {
		return fmt.Sprint(s.next)
	}
	return fmt.Sprintf("%s-%d", s.Prefix, s.next)
}
