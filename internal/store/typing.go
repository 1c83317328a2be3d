package store

import (
	"fmt"
	"slices"
)

// TypingState is the per-chat typing indicator state.
type TypingState string

const (
	Idle          TypingState = "idle"
	AwaitingReply TypingState = "awaiting-reply"
)

// validTransitions defines allowed typing state transitions. A chat that is
// already awaiting a reply may receive another message, which keeps it in
// AwaitingReply until every outstanding reply has been delivered.
var validTransitions = map[TypingState][]TypingState{
	Idle:          {AwaitingReply},
	AwaitingReply: {AwaitingReply, Idle},
}

func (c *chat) transition(to TypingState) error {
	from := c.state
	if from == "" {
		from = Idle
	}
	if !slices.Contains(validTransitions[from], to) {
		return fmt.Errorf("invalid typing transition from %s to %s", from, to)
	}
	c.state = to
	return nil
}

// beginReply records an outstanding reply. It reports whether the chat
// just started typing.
func (c *chat) beginReply() (started bool, err error) {
	if err := c.transition(AwaitingReply); err != nil {
		return false, err
	}
	c.pending++
	return c.pending == 1, nil
}

// endReply records a delivered reply. It reports whether the chat stopped
// typing.
func (c *chat) endReply() (stopped bool, err error) {
	if c.pending == 0 {
		return false, fmt.Errorf("chat %s has no outstanding reply", c.id)
	}
	c.pending--
	if c.pending > 0 {
		return false, c.transition(AwaitingReply)
	}
	return true, c.transition(Idle)
}
