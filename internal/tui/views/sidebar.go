package views

import (
	"fmt"

	"github.com/chatdesk/chatdesk/internal/store"
	"github.com/chatdesk/chatdesk/internal/tui/ui"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	activeMarker = "▶"
	typingMarker = "…"
)

// Sidebar lists chats. The active chat is marked and chats awaiting a
// reply carry a typing marker.
type Sidebar struct {
	*tview.Table
	theme    *ui.Theme
	chats    []store.Chat
	onSelect func(chatID string)
}

// NewSidebar creates the chat list table.
func NewSidebar(theme *ui.Theme) *Sidebar {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(" Chats ")
	table.SetTitleColor(theme.TitleColor)

	sb := &Sidebar{Table: table, theme: theme}
	table.SetSelectedFunc(func(row, _ int) {
		if id := sb.chatAt(row); id != "" && sb.onSelect != nil {
			sb.onSelect(id)
		}
	})
	return sb
}

// SetOnSelect sets the callback for Enter on a chat row.
func (sb *Sidebar) SetOnSelect(fn func(chatID string)) {
	sb.onSelect = fn
}

// Update re-renders the list. The cursor stays on the previously selected
// chat when it still exists, otherwise it moves to the active chat.
func (sb *Sidebar) Update(chats []store.Chat, activeID string) {
	keep := sb.SelectedChat()
	sb.chats = chats
	sb.Clear()

	sb.SetTitle(fmt.Sprintf(" Chats [%s](%d)[-] ", ui.Tag(sb.theme.CounterColor), len(chats)))
	sb.SetCell(0, 0, tview.NewTableCell(" ").SetSelectable(false))
	sb.SetCell(0, 1, tview.NewTableCell("NAME").
		SetSelectable(false).
		SetTextColor(sb.theme.TableHeaderFg).
		SetAttributes(tcell.AttrBold).
		SetExpansion(1))
	sb.SetCell(0, 2, tview.NewTableCell(" ").SetSelectable(false))

	cursor := 0
	for i, c := range chats {
		row := i + 1
		marker, color := " ", sb.theme.FgColor
		if c.ID == activeID {
			marker, color = activeMarker, sb.theme.ActiveColor
		}
		typing := " "
		if c.IsTyping {
			typing = typingMarker
		}
		sb.SetCell(row, 0, tview.NewTableCell(marker).SetTextColor(sb.theme.ActiveColor))
		sb.SetCell(row, 1, tview.NewTableCell(tview.Escape(sanitizeForTerminal(c.Name))).
			SetTextColor(color).
			SetMaxWidth(28).
			SetExpansion(1))
		sb.SetCell(row, 2, tview.NewTableCell(typing).SetTextColor(sb.theme.TypingColor))

		switch {
		case c.ID == keep:
			cursor = row
		case cursor == 0 && c.ID == activeID:
			cursor = row
		}
	}
	if cursor == 0 && len(chats) > 0 {
		cursor = 1
	}
	if cursor > 0 {
		sb.Select(cursor, 0)
	}
}

// SelectedChat returns the id of the chat under the cursor.
func (sb *Sidebar) SelectedChat() string {
	row, _ := sb.GetSelection()
	return sb.chatAt(row)
}

func (sb *Sidebar) chatAt(row int) string {
	idx := row - 1 // header
	if idx >= 0 && idx < len(sb.chats) {
		return sb.chats[idx].ID
	}
	return ""
}
