package keys

import "github.com/gdamore/tcell/v2"

// Action represents a keybinding action.
type Action struct {
	Key         tcell.Key
	Rune        rune
	Label       string
	Description string
	Handler     func()
	Hidden      bool
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		return ev.Key() == a.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune
}

// Hint is a key/description pair for the menu bar.
type Hint struct {
	Key         string
	Description string
}

// Registry holds keybindings per page, in registration order.
type Registry struct {
	global []*Action
	pages  map[string][]*Action
}

// NewRegistry creates a new keybinding registry.
func NewRegistry() *Registry {
	return &Registry{pages: make(map[string][]*Action)}
}

// AddGlobal registers a binding active on every page.
func (r *Registry) AddGlobal(action *Action) {
	r.global = append(r.global, action)
}

// AddPage registers a binding active only on the named page.
func (r *Registry) AddPage(page string, action *Action) {
	r.pages[page] = append(r.pages[page], action)
}

// Hints returns visible bindings for a page, page-specific first.
func (r *Registry) Hints(page string) []Hint {
	var hints []Hint
	for _, a := range r.actions(page) {
		if !a.Hidden {
			hints = append(hints, Hint{Key: a.Label, Description: a.Description})
		}
	}
	return hints
}

// HandleEvent dispatches a key event to the first matching action, trying
// page bindings before global ones. Returns true if a handler ran.
func (r *Registry) HandleEvent(page string, ev *tcell.EventKey) bool {
	for _, a := range r.actions(page) {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	return false
}

func (r *Registry) actions(page string) []*Action {
	out := make([]*Action, 0, len(r.pages[page])+len(r.global))
	out = append(out, r.pages[page]...)
	return append(out, r.global...)
}
