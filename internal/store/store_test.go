package store

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/chatdesk/chatdesk/internal/bus"
	"github.com/chatdesk/chatdesk/internal/id"
	"github.com/chatdesk/chatdesk/internal/reply"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fixedReply always answers with the same text.
type fixedReply string

func (f fixedReply) Select(string) string { return string(f) }

func newTestStore(t *testing.T, opts ...Option) (*Store, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	base := []Option{
		WithSeed(false),
		WithIDs(&id.Sequence{Prefix: "id"}),
		WithScheduler(sched),
		WithReplies(fixedReply("ok")),
		WithLogger(zap.NewNop()),
	}
	s := New(append(base, opts...)...)
	t.Cleanup(s.Close)
	return s, sched
}

func TestSeedState(t *testing.T) {
	s, _ := newTestStore(t, WithSeed(true))

	chats := s.Chats()
	if len(chats) != 3 {
		t.Fatalf("got %d chats, want 3", len(chats))
	}
	names := []string{chats[0].Name, chats[1].Name, chats[2].Name}
	want := []string{"React Basics", "Props & State", "Component Structure"}
	if !slices.Equal(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if s.ActiveChatID() != chats[0].ID {
		t.Errorf("active = %q, want first chat %q", s.ActiveChatID(), chats[0].ID)
	}
	if len(chats[0].Messages) != 1 {
		t.Fatalf("first chat has %d messages, want 1", len(chats[0].Messages))
	}
	welcome := chats[0].Messages[0]
	if welcome.Role != RoleAssistant || welcome.Text != WelcomeText {
		t.Errorf("welcome = %+v", welcome)
	}
	for _, c := range chats[1:] {
		if len(c.Messages) != 0 || c.IsTyping {
			t.Errorf("chat %q = %+v, want empty and idle", c.Name, c)
		}
	}
}

func TestCreateChat(t *testing.T) {
	s, _ := newTestStore(t)

	chatID := s.CreateChat("  Hooks  ")
	if chatID == "" {
		t.Fatal("CreateChat returned empty id")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if s.ActiveChatID() != chatID {
		t.Errorf("active = %q, want %q", s.ActiveChatID(), chatID)
	}
	c, ok := s.Chat(chatID)
	if !ok {
		t.Fatal("created chat not found")
	}
	if c.Name != "Hooks" {
		t.Errorf("name = %q, want Hooks", c.Name)
	}
	if len(c.Messages) != 0 || c.IsTyping {
		t.Errorf("new chat = %+v, want empty and idle", c)
	}

	second := s.CreateChat("Context")
	chats := s.Chats()
	if chats[len(chats)-1].ID != second {
		t.Error("new chat not appended at the end")
	}
	if s.ActiveChatID() != second {
		t.Errorf("active = %q, want %q", s.ActiveChatID(), second)
	}
}

func TestCreateChatEmptyName(t *testing.T) {
	s, _ := newTestStore(t, WithSeed(true))
	before := s.Len()
	active := s.ActiveChatID()

	for _, name := range []string{"", "   ", "\t\n"} {
		if got := s.CreateChat(name); got != "" {
			t.Errorf("CreateChat(%q) = %q, want empty", name, got)
		}
	}
	if s.Len() != before {
		t.Errorf("Len() = %d, want %d", s.Len(), before)
	}
	if s.ActiveChatID() != active {
		t.Errorf("active changed to %q", s.ActiveChatID())
	}
}

func TestDeleteChat(t *testing.T) {
	tests := []struct {
		name       string
		deleteIdx  int
		activeIdx  int
		wantActive int // index into the original order, -1 for none
	}{
		{"active first", 0, 0, 1},
		{"active middle", 1, 1, 0},
		{"active last", 2, 2, 0},
		{"inactive", 1, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			ids := []string{s.CreateChat("a"), s.CreateChat("b"), s.CreateChat("c")}
			s.SelectChat(ids[tt.activeIdx])

			s.DeleteChat(ids[tt.deleteIdx])

			if s.Len() != 2 {
				t.Errorf("Len() = %d, want 2", s.Len())
			}
			if _, ok := s.Chat(ids[tt.deleteIdx]); ok {
				t.Error("deleted chat still present")
			}
			if got := s.ActiveChatID(); got != ids[tt.wantActive] {
				t.Errorf("active = %q, want %q", got, ids[tt.wantActive])
			}
		})
	}
}

func TestDeleteLastChatClearsActive(t *testing.T) {
	s, _ := newTestStore(t)
	chatID := s.CreateChat("only")
	s.DeleteChat(chatID)

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.ActiveChatID() != "" {
		t.Errorf("active = %q, want empty", s.ActiveChatID())
	}
	if _, ok := s.ActiveChat(); ok {
		t.Error("ActiveChat() reported a chat on an empty store")
	}
}

func TestDeleteUnknownChat(t *testing.T) {
	s, _ := newTestStore(t, WithSeed(true))
	before := s.Chats()
	active := s.ActiveChatID()

	s.DeleteChat("missing")

	if s.Len() != len(before) {
		t.Errorf("Len() = %d, want %d", s.Len(), len(before))
	}
	if s.ActiveChatID() != active {
		t.Error("active changed on unknown delete")
	}
}

func TestRenameChat(t *testing.T) {
	s, sched := newTestStore(t)
	chatID := s.CreateChat("Old")
	s.SendMessage("hello")
	sched.fireAll()

	s.RenameChat(chatID, "")
	s.RenameChat(chatID, "   ")
	if c, _ := s.Chat(chatID); c.Name != "Old" {
		t.Errorf("name = %q after empty rename, want Old", c.Name)
	}

	s.RenameChat(chatID, "  New Name  ")
	c, _ := s.Chat(chatID)
	if c.Name != "New Name" {
		t.Errorf("name = %q, want %q", c.Name, "New Name")
	}
	if len(c.Messages) != 2 {
		t.Errorf("rename changed messages: got %d, want 2", len(c.Messages))
	}

	s.RenameChat("missing", "Whatever")
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSelectChatIsUnconditional(t *testing.T) {
	s, sched := newTestStore(t)
	s.CreateChat("a")

	s.SelectChat("nope")
	if s.ActiveChatID() != "nope" {
		t.Errorf("active = %q, want nope", s.ActiveChatID())
	}

	s.SendMessage("hello")
	if sched.len() != 0 {
		t.Error("reply scheduled for a nonexistent active chat")
	}
	for _, c := range s.Chats() {
		if len(c.Messages) != 0 {
			t.Errorf("chat %q got a message", c.Name)
		}
	}
}

func TestSendMessageNoActiveChat(t *testing.T) {
	s, sched := newTestStore(t)

	s.SendMessage("hello")

	if s.Len() != 0 || sched.len() != 0 || s.Pending() != 0 {
		t.Error("send without active chat changed state")
	}
}

func TestSendMessageEmptyText(t *testing.T) {
	s, sched := newTestStore(t)
	chatID := s.CreateChat("a")

	s.SendMessage("   ")

	c, _ := s.Chat(chatID)
	if len(c.Messages) != 0 || c.IsTyping || sched.len() != 0 {
		t.Errorf("empty send changed state: %+v", c)
	}
}

func TestSendMessageReactReply(t *testing.T) {
	s, sched := newTestStore(t, WithReplies(reply.New(rand.New(rand.NewPCG(3, 4)))))
	chatID := s.CreateChat("a")

	s.SendMessage("  tell me about react  ")

	c, _ := s.Chat(chatID)
	if len(c.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(c.Messages))
	}
	if c.Messages[0].Role != RoleUser || c.Messages[0].Text != "tell me about react" {
		t.Errorf("user message = %+v", c.Messages[0])
	}
	if !c.IsTyping || c.State() != AwaitingReply {
		t.Error("chat should be typing after send")
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}

	sched.fireAll()

	c, _ = s.Chat(chatID)
	if len(c.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(c.Messages))
	}
	got := c.Messages[1]
	if got.Role != RoleAssistant {
		t.Errorf("role = %s, want assistant", got.Role)
	}
	if !slices.Contains(reply.Candidates(reply.React), got.Text) {
		t.Errorf("reply %q is not a React reply", got.Text)
	}
	if c.IsTyping || c.State() != Idle {
		t.Error("chat should be idle after reply")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
}

func TestReplyDelayWindow(t *testing.T) {
	s, sched := newTestStore(t, WithJitter(rand.New(rand.NewPCG(9, 9))))
	s.CreateChat("a")

	for range 500 {
		s.SendMessage("hi")
	}
	for _, d := range sched.delays() {
		if d < 600*time.Millisecond || d >= 1400*time.Millisecond {
			t.Fatalf("delay %v outside [600ms, 1400ms)", d)
		}
	}
}

func TestReplyDelayFixedWindow(t *testing.T) {
	s, sched := newTestStore(t, WithDelay(50*time.Millisecond, 50*time.Millisecond))
	s.CreateChat("a")
	s.SendMessage("hi")

	if d := sched.delays()[0]; d != 50*time.Millisecond {
		t.Errorf("delay = %v, want 50ms", d)
	}
}

func TestSetDelay(t *testing.T) {
	s, sched := newTestStore(t)
	s.CreateChat("a")

	s.SetDelay(10*time.Millisecond, 10*time.Millisecond)
	s.SendMessage("one")
	s.SetDelay(time.Second, 0) // inverted, ignored
	s.SendMessage("two")

	got := sched.delays()
	if len(got) != 2 || got[0] != 10*time.Millisecond || got[1] != 10*time.Millisecond {
		t.Errorf("delays = %v, want [10ms 10ms]", got)
	}
}

func TestReplyDroppedWhenChatDeleted(t *testing.T) {
	b := bus.New()
	events, unsub := b.Subscribe(bus.MessageDropped, 10)
	defer unsub()

	s, sched := newTestStore(t, WithBus(b))
	target := s.CreateChat("doomed")
	other := s.CreateChat("survivor")
	s.SelectChat(target)
	s.SendMessage("hello")
	s.DeleteChat(target)

	sched.fireAll()

	c, _ := s.Chat(other)
	if len(c.Messages) != 0 {
		t.Errorf("survivor got %d messages, want 0", len(c.Messages))
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
	select {
	case evt := <-events:
		change := evt.Payload.(bus.MessageChange)
		if change.ChatID != target {
			t.Errorf("dropped chat = %q, want %q", change.ChatID, target)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message.dropped")
	}
}

func TestReplyGoesToChatActiveAtSend(t *testing.T) {
	s, sched := newTestStore(t)
	first := s.CreateChat("first")
	second := s.CreateChat("second")
	s.SelectChat(first)
	s.SendMessage("hello")
	s.SelectChat(second)

	sched.fireAll()

	a, _ := s.Chat(first)
	b, _ := s.Chat(second)
	if len(a.Messages) != 2 {
		t.Errorf("first has %d messages, want 2", len(a.Messages))
	}
	if len(b.Messages) != 0 {
		t.Errorf("second has %d messages, want 0", len(b.Messages))
	}
}

func TestTypingCountsOutstandingReplies(t *testing.T) {
	s, sched := newTestStore(t)
	chatID := s.CreateChat("a")
	s.SendMessage("one")
	s.SendMessage("two")

	sched.fire(0)
	if c, _ := s.Chat(chatID); !c.IsTyping {
		t.Error("typing cleared while a reply is still outstanding")
	}

	sched.fire(1)
	c, _ := s.Chat(chatID)
	if c.IsTyping {
		t.Error("typing still set after every reply landed")
	}
	roles := make([]Role, len(c.Messages))
	for i, m := range c.Messages {
		roles[i] = m.Role
	}
	want := []Role{RoleUser, RoleUser, RoleAssistant, RoleAssistant}
	if !slices.Equal(roles, want) {
		t.Errorf("roles = %v, want %v", roles, want)
	}
}

func TestUserMessageBeforeReply(t *testing.T) {
	s, sched := newTestStore(t)
	chatID := s.CreateChat("a")
	s.SendMessage("first")
	sched.fireAll()
	s.SendMessage("second")
	sched.fireAll()

	c, _ := s.Chat(chatID)
	want := []Role{RoleUser, RoleAssistant, RoleUser, RoleAssistant}
	for i, m := range c.Messages {
		if m.Role != want[i] {
			t.Errorf("message %d role = %s, want %s", i, m.Role, want[i])
		}
	}
}

func TestResetDropsInFlightReplies(t *testing.T) {
	s, sched := newTestStore(t, WithSeed(true))
	s.SendMessage("hello")
	s.Reset()

	sched.fireAll()

	chats := s.Chats()
	if len(chats) != 3 {
		t.Fatalf("got %d chats after reset, want 3", len(chats))
	}
	if len(chats[0].Messages) != 1 {
		t.Errorf("seed chat has %d messages, want only the welcome", len(chats[0].Messages))
	}
	if s.ActiveChatID() != chats[0].ID {
		t.Error("first seed chat not active after reset")
	}
}

func TestCloseStopsReplies(t *testing.T) {
	s, sched := newTestStore(t)
	chatID := s.CreateChat("a")
	s.SendMessage("hello")
	s.Close()

	sched.fireAll()

	c, _ := s.Chat(chatID)
	if len(c.Messages) != 1 {
		t.Errorf("got %d messages, want 1 (no reply after Close)", len(c.Messages))
	}
	s.SendMessage("again")
	if sched.len() != 1 {
		t.Error("send after Close scheduled a reply")
	}
}

func TestRealSchedulerDelivers(t *testing.T) {
	b := bus.New()
	events, unsub := b.Subscribe(bus.ChatTyping, 10)
	defer unsub()

	s := New(
		WithSeed(false),
		WithBus(b),
		WithDelay(time.Millisecond, 5*time.Millisecond),
		WithReplies(fixedReply("pong")),
	)
	defer s.Close()
	chatID := s.CreateChat("live")
	s.SendMessage("ping")

	var typing []bool
	timeout := time.After(2 * time.Second)
	for len(typing) < 2 {
		select {
		case evt := <-events:
			typing = append(typing, evt.Payload.(bus.TypingChange).Typing)
		case <-timeout:
			t.Fatal("timeout waiting for typing events")
		}
	}
	if !slices.Equal(typing, []bool{true, false}) {
		t.Errorf("typing events = %v, want [true false]", typing)
	}
	c, _ := s.Chat(chatID)
	if last, _ := c.LastMessage(); last.Text != "pong" {
		t.Errorf("last message = %q, want pong", last.Text)
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	s, _ := newTestStore(t, WithSeed(true))
	c, _ := s.ActiveChat()
	c.Messages[0].Text = "mutated"
	c.Name = "mutated"

	fresh, _ := s.ActiveChat()
	if fresh.Messages[0].Text != WelcomeText || fresh.Name != "React Basics" {
		t.Error("snapshot mutation leaked into the store")
	}
}

func TestUniqueIDs(t *testing.T) {
	s := New(WithSeed(true), WithScheduler(&manualScheduler{}))
	defer s.Close()
	for range 100 {
		s.CreateChat("x")
	}
	seen := make(map[string]bool)
	for _, c := range s.Chats() {
		if seen[c.ID] {
			t.Fatalf("duplicate chat id %q", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestMutationEvents(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("chat.", 16)
	defer unsub()

	s, _ := newTestStore(t, WithBus(b))
	chatID := s.CreateChat("a")
	s.RenameChat(chatID, "b")
	s.SelectChat(chatID)
	s.DeleteChat(chatID)

	want := []string{bus.ChatCreated, bus.ChatRenamed, bus.ChatSelected, bus.ChatDeleted}
	for _, kind := range want {
		select {
		case evt := <-ch:
			if evt.Kind != kind {
				t.Errorf("event = %q, want %q", evt.Kind, kind)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %s", kind)
		}
	}
}
