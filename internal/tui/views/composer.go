package views

import (
	"github.com/chatdesk/chatdesk/internal/tui/ui"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Composer placeholders.
const (
	DisabledPlaceholder = "Select a chat first..."
	EnabledPlaceholder  = "Type a message and press Enter"
)

// Composer is the text input for sending messages.
type Composer struct {
	*tview.InputField
	enabled bool
	onSend  func(text string)
	onLeave func()
}

// NewComposer creates a new message composer, initially disabled.
func NewComposer(theme *ui.Theme) *Composer {
	input := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	input.SetBorder(true)
	input.SetBorderColor(theme.BorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetPlaceholderTextColor(theme.MutedColor)
	input.SetLabelColor(theme.MenuKeyColor)
	input.SetTitle(" Compose (i to focus) ")
	input.SetTitleColor(theme.TitleColor)

	c := &Composer{InputField: input}
	c.SetEnabled(false)

	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			text := c.GetText()
			if c.enabled && text != "" && c.onSend != nil {
				c.onSend(text)
			}
			c.SetText("")
		case tcell.KeyEscape:
			if c.onLeave != nil {
				c.onLeave()
			}
		}
	})

	return c
}

// SetEnabled toggles input; without an active chat the composer is
// disabled and shows a hint instead.
func (c *Composer) SetEnabled(enabled bool) {
	c.enabled = enabled
	c.SetDisabled(!enabled)
	if enabled {
		c.SetPlaceholder(EnabledPlaceholder)
		return
	}
	c.SetText("")
	c.SetPlaceholder(DisabledPlaceholder)
}

// Enabled reports whether the composer accepts input.
func (c *Composer) Enabled() bool {
	return c.enabled
}

// SetOnSend sets the callback when a message is submitted.
func (c *Composer) SetOnSend(fn func(text string)) {
	c.onSend = fn
}

// SetOnLeave sets the callback for Esc inside the composer.
func (c *Composer) SetOnLeave(fn func()) {
	c.onLeave = fn
}
