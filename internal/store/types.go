package store

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a chat history. Messages are never edited
// or removed once appended.
type Message struct {
	ID        string
	Role      Role
	Text      string
	CreatedAt time.Time
}

// Chat is a snapshot of a conversation. Values returned by the store are
// copies; changing them does not affect the store.
type Chat struct {
	ID       string
	Name     string
	Messages []Message
	IsTyping bool
}

// State reports the typing state derived from IsTyping.
func (c Chat) State() TypingState {
	if c.IsTyping {
		return AwaitingReply
	}
	return Idle
}

// LastMessage returns the most recent message, if any.
func (c Chat) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// chat is the store-owned mutable record behind a Chat snapshot.
type chat struct {
	id       string
	name     string
	messages []Message
	pending  int
	state    TypingState
}

func (c *chat) snapshot() Chat {
	msgs := make([]Message, len(c.messages))
	copy(msgs, c.messages)
	return Chat{
		ID:       c.id,
		Name:     c.name,
		Messages: msgs,
		IsTyping: c.pending > 0,
	}
}
