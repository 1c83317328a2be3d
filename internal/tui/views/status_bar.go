package views

import (
	"fmt"

	"github.com/chatdesk/chatdesk/internal/tui/ui"
	"github.com/rivo/tview"
)

// StatusBar displays the chat count, the active chat and flash messages.
type StatusBar struct {
	*tview.TextView
	theme *ui.Theme
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv, theme: theme}
}

// Update renders the bar. warn selects the warning color for flash.
func (sb *StatusBar) Update(chatCount int, activeName, flash string, warn bool) {
	sb.Clear()

	active := activeName
	if active == "" {
		active = "none"
	}
	line := fmt.Sprintf(" [::b]chatdesk[-:-:-] | chats: [%s]%d[-] | active: %s",
		ui.Tag(sb.theme.CounterColor), chatCount, display(active))

	if flash != "" {
		color := sb.theme.FlashInfoColor
		if warn {
			color = sb.theme.FlashWarnColor
		}
		line += fmt.Sprintf(" | [%s]%s[-]", ui.Tag(color), display(flash))
	}

	_, _ = fmt.Fprint(sb, line)
}
