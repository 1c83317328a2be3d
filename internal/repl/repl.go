// Package repl is a line-oriented front end for the chat store. Lines that
// start with ':' are commands; anything else is sent to the active chat.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chatdesk/chatdesk/internal/bus"
	"github.com/chatdesk/chatdesk/internal/command"
	"github.com/chatdesk/chatdesk/internal/store"
	"go.uber.org/zap"
)

// DefaultDrainTimeout bounds how long Run waits for outstanding replies
// after the input ends.
const DefaultDrainTimeout = 10 * time.Second

// Sessions is the subset of the chat store the REPL drives.
type Sessions interface {
	CreateChat(name string) string
	DeleteChat(chatID string)
	RenameChat(chatID, newName string)
	SelectChat(chatID string)
	SendMessage(text string)
	Chats() []store.Chat
	Chat(chatID string) (store.Chat, bool)
	ActiveChat() (store.Chat, bool)
}

// REPL reads commands and messages from in and writes to out. All output is
// written from the goroutine running Run.
type REPL struct {
	sessions Sessions
	bus      *bus.Bus
	in       io.Reader
	out      io.Writer
	logger   *zap.Logger

	DrainTimeout time.Duration

	done     chan struct{}
	stopOnce sync.Once

	// expected counts accepted sends, answered counts replies seen
	// (delivered or dropped).
	expected int
	answered int
}

// New creates a REPL.
func New(s Sessions, b *bus.Bus, in io.Reader, out io.Writer, logger *zap.Logger) *REPL {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &REPL{
		sessions:     s,
		bus:          b,
		in:           in,
		out:          out,
		logger:       logger,
		DrainTimeout: DefaultDrainTimeout,
		done:         make(chan struct{}),
	}
}

// Run processes input until :quit, Stop, or end of input. At end of input it
// waits (up to DrainTimeout) for replies still in flight so they get printed.
func (r *REPL) Run() error {
	events, unsub := r.bus.Subscribe("", 256)
	defer unsub()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go r.read(lines, readErr)

	r.printf("chatdesk: type a message, or :help for commands\n")

	var drain <-chan time.Time
	for {
		select {
		case line := <-lines:
			if !r.handleLine(line) {
				return nil
			}
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if r.answered >= r.expected {
				return nil
			}
			drain = time.After(r.DrainTimeout)
		case evt := <-events:
			r.handleEvent(evt)
			if drain != nil && r.answered >= r.expected {
				return nil
			}
		case <-drain:
			r.logger.Warn("input ended with replies outstanding",
				zap.Int("expected", r.expected), zap.Int("answered", r.answered))
			return nil
		case <-r.done:
			return nil
		}
	}
}

// Stop makes Run return.
func (r *REPL) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *REPL) read(lines chan<- string, readErr chan<- error) {
	scanner := bufio.NewScanner(r.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-r.done:
			return
		}
	}
	readErr <- scanner.Err()
}

// handleLine reports false when the REPL should exit.
func (r *REPL) handleLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	if !command.IsCommand(line) {
		r.send(line)
		return true
	}

	cmd := command.Parse(line)
	switch cmd.Name {
	case command.New:
		if chatID := r.sessions.CreateChat(cmd.Args); chatID != "" {
			r.printf("created %q\n", strings.TrimSpace(cmd.Args))
		}
	case command.Rename:
		if active, ok := r.sessions.ActiveChat(); ok {
			r.sessions.RenameChat(active.ID, cmd.Args)
		}
	case command.Delete:
		target, ok := r.sessions.ActiveChat()
		if cmd.Args != "" {
			target, ok = r.chatAt(cmd.Args)
		}
		if ok {
			r.sessions.DeleteChat(target.ID)
			r.printf("deleted %q\n", target.Name)
		}
	case command.Select:
		if c, ok := r.chatAt(cmd.Args); ok {
			r.sessions.SelectChat(c.ID)
			r.printf("switched to %q\n", c.Name)
		} else {
			r.printf("usage: :select <number>  (see :list)\n")
		}
	case command.List:
		r.list()
	case command.Show:
		r.show()
	case command.Help:
		r.help()
	case command.Quit:
		return false
	default:
		r.printf("unknown command %q, try :help\n", cmd.Name)
	}
	return true
}

func (r *REPL) send(text string) {
	if _, ok := r.sessions.ActiveChat(); !ok {
		r.printf("Select a chat first...\n")
		return
	}
	if strings.TrimSpace(text) != "" {
		r.expected++
	}
	r.sessions.SendMessage(text)
}

func (r *REPL) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.MessageAppended:
		change, ok := evt.Payload.(bus.MessageChange)
		if !ok || change.Role != string(store.RoleAssistant) {
			return
		}
		r.answered++
		r.printf("[%s] assistant: %s\n", r.chatName(change.ChatID), change.Text)
	case bus.MessageDropped:
		r.answered++
	case bus.ChatTyping:
		change, ok := evt.Payload.(bus.TypingChange)
		if ok && change.Typing {
			r.printf("[%s] Assistant is typing…\n", r.chatName(change.ChatID))
		}
	}
}

func (r *REPL) chatName(chatID string) string {
	if c, ok := r.sessions.Chat(chatID); ok {
		return c.Name
	}
	return chatID
}

// chatAt resolves a 1-based index from :list.
func (r *REPL) chatAt(arg string) (store.Chat, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	chats := r.sessions.Chats()
	if err != nil || n < 1 || n > len(chats) {
		return store.Chat{}, false
	}
	return chats[n-1], true
}

func (r *REPL) list() {
	chats := r.sessions.Chats()
	if len(chats) == 0 {
		r.printf("no chats, create one with :new <name>\n")
		return
	}
	active, _ := r.sessions.ActiveChat()
	for i, c := range chats {
		marker := " "
		if c.ID == active.ID {
			marker = "*"
		}
		typing := ""
		if c.IsTyping {
			typing = " (typing…)"
		}
		r.printf("%s %d. %s [%d]%s\n", marker, i+1, c.Name, len(c.Messages), typing)
	}
}

func (r *REPL) show() {
	c, ok := r.sessions.ActiveChat()
	if !ok {
		r.printf("Select a chat to start.\n")
		return
	}
	r.printf("== %s ==\n", c.Name)
	if len(c.Messages) == 0 {
		r.printf("No messages yet. Send one below.\n")
	}
	for _, m := range c.Messages {
		r.printf("%s %s: %s\n", m.CreatedAt.Format("15:04"), m.Role, m.Text)
	}
	if c.IsTyping {
		r.printf("Assistant is typing…\n")
	}
}

func (r *REPL) help() {
	r.printf(`commands:
  :new <name>        Create a chat and switch to it
  :rename <name>     Rename the active chat
  :delete [n]        Delete chat n (default: the active chat)
  :select <n>        Switch to chat n
  :list              List chats
  :show              Show the active chat's history
  :help              Show this help
  :quit              Exit
anything else is sent to the active chat
`)
}

func (r *REPL) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}
