// Package store owns the chat collection and the active chat pointer.
//
// Every operation runs under a single mutex, so mutations are atomic with
// respect to each other. Delayed assistant replies re-enter the store
// through the same lock. Invalid input never produces an error: the
// operation is simply a no-op.
package store

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/chatdesk/chatdesk/internal/bus"
	"github.com/chatdesk/chatdesk/internal/id"
	"github.com/chatdesk/chatdesk/internal/reply"
	"go.uber.org/zap"
)

const (
	DefaultMinDelay = 600 * time.Millisecond
	DefaultMaxDelay = 1400 * time.Millisecond
)

// Replier produces the assistant reply for a user message.
type Replier interface {
	Select(text string) string
}

// Store is the chat session store.
type Store struct {
	mu       sync.Mutex
	chats    []*chat
	activeID string
	timers   map[uint64]Timer
	nextTask uint64
	closed   bool

	chatIDs  id.Generator
	msgIDs   id.Generator
	replies  Replier
	jitter   reply.Source
	minDelay time.Duration
	maxDelay time.Duration
	sched    Scheduler
	bus      *bus.Bus
	logger   *zap.Logger
	now      func() time.Time
	seed     bool
}

// Option configures a Store.
type Option func(*Store)

// WithIDs uses gen for both chat and message ids.
func WithIDs(gen id.Generator) Option {
	return func(s *Store) {
		s.chatIDs = gen
		s.msgIDs = gen
	}
}

// WithReplies sets the reply engine.
func WithReplies(r Replier) Option {
	return func(s *Store) { s.replies = r }
}

// WithJitter sets the random source used to pick reply delays.
func WithJitter(src reply.Source) Option {
	return func(s *Store) { s.jitter = src }
}

// WithDelay sets the reply delay window [min, max).
func WithDelay(lo, hi time.Duration) Option {
	return func(s *Store) {
		s.minDelay = lo
		s.maxDelay = hi
	}
}

// WithScheduler sets the scheduler used for delayed replies.
func WithScheduler(sched Scheduler) Option {
	return func(s *Store) { s.sched = sched }
}

// WithBus publishes change events on b.
func WithBus(b *bus.Bus) Option {
	return func(s *Store) { s.bus = b }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock sets the time source for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSeed controls whether the store starts with the demo chats.
func WithSeed(seed bool) Option {
	return func(s *Store) { s.seed = seed }
}

// New creates a store. Unless disabled with WithSeed(false), it starts with
// the seed chats and the first one active.
func New(opts ...Option) *Store {
	s := &Store{
		timers:   make(map[uint64]Timer),
		chatIDs:  id.Prefixed("chat", id.UUID{}),
		msgIDs:   id.Prefixed("msg", id.UUID{}),
		minDelay: DefaultMinDelay,
		maxDelay: DefaultMaxDelay,
		sched:    RealScheduler{},
		logger:   zap.NewNop(),
		now:      time.Now,
		seed:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.jitter == nil {
		s.jitter = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.replies == nil {
		s.replies = reply.New(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	}
	if s.seed {
		s.seedLocked()
	}
	return s
}

// Reset discards every chat and restores the initial state. Replies still
// in flight for discarded chats are dropped when they land.
func (s *Store) Reset() {
	s.mu.Lock()
	s.chats = nil
	s.activeID = ""
	var events []bus.Event
	if s.seed {
		events = s.seedLocked()
	}
	events = append(events, bus.Event{
		Kind:    bus.ChatSelected,
		Payload: bus.ChatChange{ChatID: s.activeID, ActiveID: s.activeID},
	})
	s.mu.Unlock()

	s.logger.Info("store reset", zap.Bool("seed", s.seed))
	s.publish(events...)
}

// Close stops every scheduled reply. Deliveries after Close are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
	s.closed = true
}

// Pending returns the number of replies scheduled but not yet delivered.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// SetDelay replaces the reply delay window for replies scheduled from now
// on. An invalid window (negative or inverted) is ignored.
func (s *Store) SetDelay(lo, hi time.Duration) {
	if lo < 0 || hi < lo {
		s.logger.Debug("ignoring invalid delay window", zap.Duration("min", lo), zap.Duration("max", hi))
		return
	}
	s.mu.Lock()
	s.minDelay, s.maxDelay = lo, hi
	s.mu.Unlock()
	s.logger.Info("reply delay updated", zap.Duration("min", lo), zap.Duration("max", hi))
}

func (s *Store) publish(events ...bus.Event) {
	for _, evt := range events {
		s.bus.Publish(evt)
	}
}

func (s *Store) find(chatID string) (int, *chat) {
	for i, c := range s.chats {
		if c.id == chatID {
			return i, c
		}
	}
	return -1, nil
}
