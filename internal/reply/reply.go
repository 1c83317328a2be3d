// Package reply picks canned assistant replies by keyword category.
package reply

import (
	"fmt"
	"strings"
	"sync"
)

// Category names a group of canned replies.
type Category string

const (
	React      Category = "react"
	TypeScript Category = "typescript"
	Help       Category = "help"
	Error      Category = "error"
	Style      Category = "style"
	Fallback   Category = "fallback"
)

// Source is the random source used to pick a candidate. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

type rule struct {
	category Category
	keywords []string
}

// rules are evaluated in order and the first match wins, so a message that
// mentions both "react" and "css" always gets a React reply.
var rules = []rule{
	{React, []string{"react"}},
	{TypeScript, []string{"typescript", "ts"}},
	{Help, []string{"help", "stuck", "confused"}},
	{Error, []string{"error", "bug", "broken"}},
	{Style, []string{"css", "style", "layout"}},
}

var candidates = map[Category][]string{
	React: {
		"React tip: keep state as high as necessary, as low as possible.",
		"React likes immutable updates—avoid mutating arrays/objects in state.",
		"In React, derived data is often better computed than stored.",
		"If you’re mapping lists, remember stable keys (ids > index).",
	},
	TypeScript: {
		"TypeScript tip: type your boundaries—props, state, and function inputs.",
		"If TS complains about null, add a guard or use a non-null assertion carefully.",
		"Use union types for constrained values (like role: 'user' | 'assistant').",
	},
	Help: {
		"Tell me what you expected to happen vs what actually happened.",
		"Drop the error message or a screenshot and I’ll help you debug it.",
		"What part is unclear—state, props, events, or TypeScript?",
	},
	Error: {
		"Debug move: check the console first—what’s the exact error text?",
		"Try isolating: comment out pieces until the error disappears, then narrow it down.",
		"If it’s state-related, confirm you’re not mutating arrays/objects directly.",
	},
	Style: {
		"CSS tip: flex + gap is your best friend for clean layouts.",
		"If alignment is off, check parent display settings and element widths.",
		"Use max-width on content areas to avoid super wide UI on large screens.",
	},
	Fallback: {
		"Interesting—say a bit more about that.",
		"I’m with you. What’s the next step you’re thinking?",
		"Let’s break that down—what’s the main goal?",
		"That makes sense. Want a quick example?",
		echoTemplate,
	},
}

// echoTemplate quotes the user's original text back.
const echoTemplate = `You said: "%s". What would you like to do with that?`

// Engine maps user text to a reply. It is safe for concurrent use.
type Engine struct {
	mu  sync.Mutex
	src Source
}

// New creates an engine drawing from src.
func New(src Source) *Engine {
	return &Engine{src: src}
}

// Classify returns the first category whose keywords occur in text,
// compared case-insensitively.
func Classify(text string) Category {
	msg := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(msg, kw) {
				return r.category
			}
		}
	}
	return Fallback
}

// Candidates returns a copy of the replies for a category.
func Candidates(c Category) []string {
	list, ok := candidates[c]
	if !ok {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Select returns a reply for text, chosen uniformly from the matched category.
func (e *Engine) Select(text string) string {
	list := candidates[Classify(text)]
	e.mu.Lock()
	choice := list[e.src.IntN(len(list))]
	e.mu.Unlock()
	if choice == echoTemplate {
		return fmt.Sprintf(echoTemplate, text)
	}
	return choice
}
