package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatdesk/chatdesk/internal/bus"
	"github.com/chatdesk/chatdesk/internal/store"
)

// Sessions is the subset of the chat store the TUI drives.
type Sessions interface {
	CreateChat(name string) string
	DeleteChat(chatID string)
	RenameChat(chatID, newName string)
	SelectChat(chatID string)
	SendMessage(text string)
	Chats() []store.Chat
	ActiveChatID() string
}

// Snapshot is a consistent view of the store for one render pass.
type Snapshot struct {
	Chats    []store.Chat
	ActiveID string
}

// Active returns the active chat, if it exists.
func (s Snapshot) Active() (store.Chat, bool) {
	for _, c := range s.Chats {
		if c.ID == s.ActiveID {
			return c, true
		}
	}
	return store.Chat{}, false
}

// ViewModel forwards user intents to the store and signals the UI to
// redraw whenever the store publishes a change.
type ViewModel struct {
	sessions Sessions
	bus      *bus.Bus
	Flash    Flash

	refreshCh chan struct{}
	cancel    context.CancelFunc
}

// NewViewModel creates a view model over the store.
func NewViewModel(s Sessions, b *bus.Bus) *ViewModel {
	return &ViewModel{
		sessions:  s,
		bus:       b,
		refreshCh: make(chan struct{}, 1),
	}
}

// Start subscribes to store events until ctx is done or Stop is called.
func (vm *ViewModel) Start(ctx context.Context) {
	ctx, vm.cancel = context.WithCancel(ctx)
	ch, unsub := vm.bus.Subscribe("", 256)

	go func() {
		defer unsub()
		for {
			select {
			case <-ch:
				vm.signalRefresh()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the event subscription.
func (vm *ViewModel) Stop() {
	if vm.cancel != nil {
		vm.cancel()
	}
}

// RefreshCh returns the channel that signals UI refresh. Signals coalesce.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// Snapshot reads the current store state.
func (vm *ViewModel) Snapshot() Snapshot {
	return Snapshot{
		Chats:    vm.sessions.Chats(),
		ActiveID: vm.sessions.ActiveChatID(),
	}
}

// CreateChat creates and activates a chat.
func (vm *ViewModel) CreateChat(name string) {
	if vm.sessions.CreateChat(name) != "" {
		vm.Flash.Info(fmt.Sprintf("Created %q", strings.TrimSpace(name)))
	}
}

// DeleteChat deletes a chat by id.
func (vm *ViewModel) DeleteChat(chatID string) {
	for _, c := range vm.sessions.Chats() {
		if c.ID == chatID {
			vm.sessions.DeleteChat(chatID)
			vm.Flash.Info(fmt.Sprintf("Deleted %q", c.Name))
			return
		}
	}
}

// RenameActive renames the active chat.
func (vm *ViewModel) RenameActive(name string) {
	active, ok := vm.Snapshot().Active()
	if !ok || strings.TrimSpace(name) == "" {
		return
	}
	vm.sessions.RenameChat(active.ID, name)
	vm.Flash.Info(fmt.Sprintf("Renamed to %q", strings.TrimSpace(name)))
}

// Select makes a chat active.
func (vm *ViewModel) Select(chatID string) {
	vm.sessions.SelectChat(chatID)
}

// Send sends text to the active chat.
func (vm *ViewModel) Send(text string) {
	vm.sessions.SendMessage(text)
}
