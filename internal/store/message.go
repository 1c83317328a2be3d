package store

import (
	"strings"
	"time"

	"github.com/chatdesk/chatdesk/internal/bus"
	"go.uber.org/zap"
)

// SendMessage appends a user message to the active chat, marks it typing and
// schedules the assistant reply. Empty text, or no active chat, is a no-op.
// The reply goes to the chat that was active at send time; if that chat is
// gone when the delay elapses the reply is dropped.
func (s *Store) SendMessage(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Debug("send ignored: empty text")
		return
	}

	s.mu.Lock()
	_, c := s.find(s.activeID)
	if c == nil || s.closed {
		s.mu.Unlock()
		s.logger.Debug("send ignored: no active chat")
		return
	}

	msg := Message{ID: s.msgIDs.New(), Role: RoleUser, Text: text, CreatedAt: s.now()}
	c.messages = append(c.messages, msg)
	started, err := c.beginReply()
	if err != nil {
		s.logger.Warn("typing state", zap.Error(err), zap.String("chat_id", c.id))
	}

	target := c.id
	delay := s.replyDelay()
	key := s.nextTask
	s.nextTask++
	s.timers[key] = s.sched.AfterFunc(delay, func() {
		s.deliver(key, target, text)
	})
	s.mu.Unlock()

	s.logger.Debug("reply scheduled",
		zap.String("chat_id", target),
		zap.String("msg_id", msg.ID),
		zap.Duration("delay", delay))

	events := []bus.Event{{
		Kind:    bus.MessageAppended,
		Payload: bus.MessageChange{ChatID: target, MessageID: msg.ID, Role: string(RoleUser), Text: text},
	}}
	if started {
		events = append(events, bus.Event{
			Kind:    bus.ChatTyping,
			Payload: bus.TypingChange{ChatID: target, Typing: true},
		})
	}
	s.publish(events...)
}

// replyDelay picks a delay uniformly in [minDelay, maxDelay). Caller holds s.mu.
func (s *Store) replyDelay() time.Duration {
	span := s.maxDelay - s.minDelay
	if span <= 0 {
		return s.minDelay
	}
	return s.minDelay + time.Duration(s.jitter.IntN(int(span)))
}

// deliver runs when a scheduled reply fires.
func (s *Store) deliver(key uint64, target, text string) {
	answer := s.replies.Select(text)

	s.mu.Lock()
	if _, ok := s.timers[key]; !ok || s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.timers, key)

	_, c := s.find(target)
	if c == nil {
		s.mu.Unlock()
		s.logger.Info("reply dropped: chat no longer exists", zap.String("chat_id", target))
		s.publish(bus.Event{
			Kind:    bus.MessageDropped,
			Payload: bus.MessageChange{ChatID: target, Role: string(RoleAssistant), Text: answer},
		})
		return
	}

	msg := Message{ID: s.msgIDs.New(), Role: RoleAssistant, Text: answer, CreatedAt: s.now()}
	c.messages = append(c.messages, msg)
	stopped, err := c.endReply()
	if err != nil {
		s.logger.Warn("typing state", zap.Error(err), zap.String("chat_id", c.id))
	}
	s.mu.Unlock()

	events := []bus.Event{{
		Kind:    bus.MessageAppended,
		Payload: bus.MessageChange{ChatID: target, MessageID: msg.ID, Role: string(RoleAssistant), Text: answer},
	}}
	if stopped {
		events = append(events, bus.Event{
			Kind:    bus.ChatTyping,
			Payload: bus.TypingChange{ChatID: target, Typing: false},
		})
	}
	s.publish(events...)
}
