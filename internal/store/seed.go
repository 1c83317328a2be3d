package store

import "github.com/chatdesk/chatdesk/internal/bus"

// WelcomeText is the assistant message the first seed chat starts with.
const WelcomeText = "Welcome! Pick a chat and send a message."

var seedChats = []string{"React Basics", "Props & State", "Component Structure"}

// seedLocked appends the seed chats and activates the first. Caller holds s.mu
// (or has exclusive access during construction).
func (s *Store) seedLocked() []bus.Event {
	events := make([]bus.Event, 0, len(seedChats))
	for i, name := range seedChats {
		c := &chat{id: s.chatIDs.New(), name: name, state: Idle}
		if i == 0 {
			c.messages = append(c.messages, Message{
				ID:        s.msgIDs.New(),
				Role:      RoleAssistant,
				Text:      WelcomeText,
				CreatedAt: s.now(),
			})
		}
		s.chats = append(s.chats, c)
		events = append(events, bus.Event{
			Kind:    bus.ChatCreated,
			Payload: bus.ChatChange{ChatID: c.id, Name: c.name},
		})
	}
	s.activeID = s.chats[0].id
	return events
}
