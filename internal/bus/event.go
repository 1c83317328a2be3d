package bus

import "time"

// Event kinds published by the chat store. Subscribers filter by prefix,
// so "chat." receives every chat lifecycle event and "message." every
// message event.
const (
	ChatCreated     = "chat.created"
	ChatDeleted     = "chat.deleted"
	ChatRenamed     = "chat.renamed"
	ChatSelected    = "chat.selected"
	ChatTyping      = "chat.typing"
	MessageAppended = "message.appended"
	MessageDropped  = "message.dropped"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// ChatChange is the payload for chat.created, chat.deleted, chat.renamed
// and chat.selected.
type ChatChange struct {
	ChatID   string
	Name     string
	ActiveID string
}

// TypingChange is the payload for chat.typing.
type TypingChange struct {
	ChatID string
	Typing bool
}

// MessageChange is the payload for message.appended and message.dropped.
// Role is "user" or "assistant".
type MessageChange struct {
	ChatID    string
	MessageID string
	Role      string
	Text      string
}
