package store

import (
	"strings"

	"github.com/chatdesk/chatdesk/internal/bus"
	"go.uber.org/zap"
)

// CreateChat appends a new empty chat and makes it active. It returns the new
// chat id, or "" if the trimmed name is empty.
func (s *Store) CreateChat(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		s.logger.Debug("create chat ignored: empty name")
		return ""
	}

	s.mu.Lock()
	c := &chat{id: s.chatIDs.New(), name: name, state: Idle}
	s.chats = append(s.chats, c)
	s.activeID = c.id
	s.mu.Unlock()

	s.logger.Info("chat created", zap.String("chat_id", c.id), zap.String("name", name))
	s.publish(bus.Event{
		Kind:    bus.ChatCreated,
		Payload: bus.ChatChange{ChatID: c.id, Name: name, ActiveID: c.id},
	})
	return c.id
}

// DeleteChat removes a chat. If it was active, the first remaining chat
// becomes active, or none if the store is empty. Unknown ids are ignored.
// A reply in flight for the chat is not cancelled; it is dropped on arrival.
func (s *Store) DeleteChat(chatID string) {
	s.mu.Lock()
	idx, c := s.find(chatID)
	if c == nil {
		s.mu.Unlock()
		s.logger.Debug("delete chat ignored: unknown id", zap.String("chat_id", chatID))
		return
	}
	s.chats = append(s.chats[:idx:idx], s.chats[idx+1:]...)
	if s.activeID == chatID {
		s.activeID = ""
		if len(s.chats) > 0 {
			s.activeID = s.chats[0].id
		}
	}
	active := s.activeID
	s.mu.Unlock()

	s.logger.Info("chat deleted", zap.String("chat_id", chatID), zap.String("active_id", active))
	s.publish(bus.Event{
		Kind:    bus.ChatDeleted,
		Payload: bus.ChatChange{ChatID: chatID, Name: c.name, ActiveID: active},
	})
}

// RenameChat replaces a chat's name with the trimmed newName. Empty names and
// unknown ids are ignored. Messages are untouched.
func (s *Store) RenameChat(chatID, newName string) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		s.logger.Debug("rename chat ignored: empty name", zap.String("chat_id", chatID))
		return
	}

	s.mu.Lock()
	_, c := s.find(chatID)
	if c == nil {
		s.mu.Unlock()
		s.logger.Debug("rename chat ignored: unknown id", zap.String("chat_id", chatID))
		return
	}
	c.name = newName
	active := s.activeID
	s.mu.Unlock()

	s.logger.Info("chat renamed", zap.String("chat_id", chatID), zap.String("name", newName))
	s.publish(bus.Event{
		Kind:    bus.ChatRenamed,
		Payload: bus.ChatChange{ChatID: chatID, Name: newName, ActiveID: active},
	})
}

// SelectChat makes chatID the active chat. The id is not validated; the
// presentation layer only offers ids it got from the store.
func (s *Store) SelectChat(chatID string) {
	s.mu.Lock()
	s.activeID = chatID
	s.mu.Unlock()

	s.publish(bus.Event{
		Kind:    bus.ChatSelected,
		Payload: bus.ChatChange{ChatID: chatID, ActiveID: chatID},
	})
}

// Chats returns snapshots of all chats in order.
func (s *Store) Chats() []Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Chat, 0, len(s.chats))
	for _, c := range s.chats {
		out = append(out, c.snapshot())
	}
	return out
}

// Chat returns a snapshot of one chat.
func (s *Store) Chat(chatID string) (Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, c := s.find(chatID)
	if c == nil {
		return Chat{}, false
	}
	return c.snapshot(), true
}

// ActiveChatID returns the active chat id, or "" if none.
func (s *Store) ActiveChatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// ActiveChat returns a snapshot of the active chat. It reports false when no
// chat is active or the active id does not name an existing chat.
func (s *Store) ActiveChat() (Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, c := s.find(s.activeID)
	if c == nil {
		return Chat{}, false
	}
	return c.snapshot(), true
}

// Len returns the number of chats.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chats)
}
