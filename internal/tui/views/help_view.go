package views

import (
	"fmt"

	"github.com/chatdesk/chatdesk/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

func (hv *HelpView) render() {
	kc := ui.Tag(hv.theme.MenuKeyColor)

	help := fmt.Sprintf(`
  [::b]Chats[-:-:-]

  [%[1]s]Enter[-:-:-]    Open the chat under the cursor
  [%[1]s]j/k[-:-:-]      Move down / up
  [%[1]s]n[-:-:-]        New chat
  [%[1]s]r[-:-:-]        Rename the active chat
  [%[1]s]d[-:-:-]        Delete the chat under the cursor

  [::b]Messages[-:-:-]

  [%[1]s]i[-:-:-]        Focus the composer
  [%[1]s]Enter[-:-:-]    Send (in the composer)
  [%[1]s]Esc[-:-:-]      Leave the composer

  [::b]Commands (: mode)[-:-:-]

  [%[1]s]:new <name>[-:-:-]      Create a chat
  [%[1]s]:rename <name>[-:-:-]   Rename the active chat
  [%[1]s]:delete[-:-:-]          Delete the chat under the cursor
  [%[1]s]:help[-:-:-]            Show this help
  [%[1]s]:quit[-:-:-] / [%[1]s]q[-:-:-]     Quit

  Press [%[1]s]Esc[-:-:-] or [%[1]s]q[-:-:-] to close this help.
`, kc)

	_, _ = fmt.Fprint(hv, help)
}
