package views

import (
	"fmt"

	"github.com/chatdesk/chatdesk/internal/store"
	"github.com/chatdesk/chatdesk/internal/tui/ui"
	"github.com/rivo/tview"
)

// Placeholder texts shown by the thread.
const (
	NoChatText   = "Select a chat to start."
	EmptyText    = "No messages yet. Send one below."
	TypingText   = "Assistant is typing…"
	defaultTitle = " Messages "
)

// Thread renders the active chat's history.
type Thread struct {
	*tview.TextView
	theme *ui.Theme
}

// NewThread creates the message thread view.
func NewThread(theme *ui.Theme) *Thread {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(defaultTitle)
	tv.SetTitleColor(theme.TitleColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &Thread{TextView: tv, theme: theme}
}

// Update renders chat, or the empty-selection text when ok is false.
func (t *Thread) Update(chat store.Chat, ok bool) {
	t.Clear()
	muted := ui.Tag(t.theme.MutedColor)

	if !ok {
		t.SetTitle(defaultTitle)
		_, _ = fmt.Fprintf(t, "[%s]%s[-]", muted, NoChatText)
		return
	}

	t.SetTitle(fmt.Sprintf(" %s ", display(chat.Name)))
	if len(chat.Messages) == 0 && !chat.IsTyping {
		_, _ = fmt.Fprintf(t, "[%s]%s[-]", muted, EmptyText)
		return
	}

	for _, m := range chat.Messages {
		sender, color := "You", t.theme.UserColor
		if m.Role == store.RoleAssistant {
			sender, color = "Assistant", t.theme.AssistantColor
		}
		_, _ = fmt.Fprintf(t, "[%s::b]%s[-:-:-] [%s]%s[-]\n%s\n\n",
			ui.Tag(color), sender, muted, formatClock(m.CreatedAt), display(m.Text))
	}
	if chat.IsTyping {
		_, _ = fmt.Fprintf(t, "[%s::i]%s[-:-:-]", ui.Tag(t.theme.TypingColor), TypingText)
	}

	t.ScrollToEnd()
}
