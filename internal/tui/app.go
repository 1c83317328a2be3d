// Package tui is the full-screen terminal front end.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/chatdesk/chatdesk/internal/command"
	"github.com/chatdesk/chatdesk/internal/tui/keys"
	"github.com/chatdesk/chatdesk/internal/tui/model"
	"github.com/chatdesk/chatdesk/internal/tui/ui"
	"github.com/chatdesk/chatdesk/internal/tui/views"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const (
	pageMain = "main"
	pageHelp = "help"

	promptHeight = 3
	// flashTick re-renders so expired flash messages disappear.
	flashTick = time.Second
)

// App is the main TUI application shell.
type App struct {
	app       *tview.Application
	root      *tview.Flex
	pages     *ui.Pages
	vm        *model.ViewModel
	logger    *zap.Logger
	theme     *ui.Theme
	registry  *keys.Registry
	sidebar   *views.Sidebar
	thread    *views.Thread
	composer  *views.Composer
	statusBar *views.StatusBar
	menu      *ui.Menu
	prompt    *ui.Prompt
	help      *views.HelpView

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// NewApp creates the TUI application.
func NewApp(vm *model.ViewModel, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:       tview.NewApplication(),
		pages:     ui.NewPages(),
		vm:        vm,
		logger:    logger,
		theme:     theme,
		registry:  keys.NewRegistry(),
		sidebar:   views.NewSidebar(theme),
		thread:    views.NewThread(theme),
		composer:  views.NewComposer(theme),
		statusBar: views.NewStatusBar(theme),
		menu:      ui.NewMenu(theme),
		prompt:    ui.NewPrompt(theme),
		help:      views.NewHelpView(theme),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	a.render()

	return a
}

// SetScreen replaces the terminal screen, e.g. with a simulation screen.
func (a *App) SetScreen(screen tcell.Screen) {
	a.app.SetScreen(screen)
}

func (a *App) setupBindings() {
	a.registry.AddPage(pageMain, &keys.Action{
		Key: tcell.KeyRune, Rune: 'n', Label: "n", Description: "New",
		Handler: func() { a.showPrompt(ui.PromptNewChat, "") },
	})
	a.registry.AddPage(pageMain, &keys.Action{
		Key: tcell.KeyRune, Rune: 'r', Label: "r", Description: "Rename",
		Handler: a.startRename,
	})
	a.registry.AddPage(pageMain, &keys.Action{
		Key: tcell.KeyRune, Rune: 'd', Label: "d", Description: "Delete",
		Handler: a.deleteSelected,
	})
	a.registry.AddPage(pageMain, &keys.Action{
		Key: tcell.KeyRune, Rune: 'i', Label: "i", Description: "Compose",
		Handler: a.focusComposer,
	})
	a.registry.AddPage(pageMain, &keys.Action{
		Key: tcell.KeyRune, Rune: '?', Label: "?", Description: "Help",
		Handler: a.showHelp,
	})
	a.registry.AddPage(pageMain, &keys.Action{
		Key: tcell.KeyRune, Rune: 'q', Label: "q", Description: "Quit",
		Handler: a.Stop,
	})

	a.registry.AddPage(pageHelp, &keys.Action{
		Key: tcell.KeyEscape, Label: "Esc", Description: "Back",
		Handler: a.closeHelp,
	})
	a.registry.AddPage(pageHelp, &keys.Action{
		Key: tcell.KeyRune, Rune: 'q', Label: "q", Description: "Back",
		Handler: a.closeHelp, Hidden: true,
	})
	a.registry.AddPage(pageHelp, &keys.Action{
		Key: tcell.KeyRune, Rune: '?', Label: "?", Description: "Back",
		Handler: a.closeHelp, Hidden: true,
	})

	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: ':', Label: ":", Description: "Command",
		Handler: func() { a.showPrompt(ui.PromptCommand, "") },
	})
}

func (a *App) setupCallbacks() {
	a.sidebar.SetOnSelect(func(chatID string) {
		a.vm.Select(chatID)
		a.render()
	})

	a.composer.SetOnSend(func(text string) {
		a.vm.Send(text)
	})
	a.composer.SetOnLeave(func() {
		a.app.SetFocus(a.sidebar)
	})

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptCommand:
			a.handleCommand(command.Parse(text))
		case ui.PromptNewChat:
			a.vm.CreateChat(text)
		case ui.PromptRename:
			a.vm.RenameActive(text)
		}
		a.render()
	})
	a.prompt.SetOnCancel(a.hidePrompt)

	a.pages.SetOnChange(func([]string) {
		a.menu.Update(a.registry.Hints(a.pages.Current()))
	})
}

func (a *App) setupLayout() {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.thread, 0, 1, false).
		AddItem(a.composer, 3, 0, false)

	main := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.sidebar, 32, 0, true).
		AddItem(right, 0, 1, false)

	a.pages.AddPage(pageMain, main, true, false)
	a.pages.AddPage(pageHelp, a.help, true, false)
	a.pages.Reset(pageMain)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.menu, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(a.root, true)
	a.app.SetFocus(a.sidebar)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Text inputs get every key.
		if a.composer.HasFocus() || a.prompt.HasFocus() {
			return event
		}
		if a.registry.HandleEvent(a.pages.Current(), event) {
			return nil
		}
		return event
	})
}

// render redraws every view from a fresh store snapshot. It must run on
// the UI goroutine (or before Run).
func (a *App) render() {
	snap := a.vm.Snapshot()
	active, ok := snap.Active()

	a.sidebar.Update(snap.Chats, snap.ActiveID)
	a.thread.Update(active, ok)
	a.composer.SetEnabled(ok)
	if !ok && a.composer.HasFocus() {
		a.app.SetFocus(a.sidebar)
	}

	flash, level := a.vm.Flash.Get()
	a.statusBar.Update(len(snap.Chats), active.Name, flash, level == model.FlashWarn)
	a.menu.Update(a.registry.Hints(a.pages.Current()))
}

func (a *App) handleCommand(cmd command.Command) {
	a.logger.Debug("command", zap.String("name", cmd.Name), zap.String("args", cmd.Args))

	switch cmd.Name {
	case "":
	case command.New:
		if cmd.Args == "" {
			a.showPrompt(ui.PromptNewChat, "")
			return
		}
		a.vm.CreateChat(cmd.Args)
	case command.Rename:
		if cmd.Args == "" {
			a.startRename()
			return
		}
		a.vm.RenameActive(cmd.Args)
	case command.Delete:
		a.deleteSelected()
	case command.Select:
		a.selectByNumber(cmd.Args)
	case command.List:
		a.app.SetFocus(a.sidebar)
	case command.Show:
		a.app.SetFocus(a.thread)
	case command.Help:
		a.showHelp()
	case command.Quit:
		a.Stop()
	default:
		a.vm.Flash.Warn(fmt.Sprintf("Unknown command %q, try :help", cmd.Name))
	}
}

func (a *App) selectByNumber(arg string) {
	chats := a.vm.Snapshot().Chats
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(chats) {
		a.vm.Flash.Warn(fmt.Sprintf("Usage: :select <1-%d>", len(chats)))
		return
	}
	a.vm.Select(chats[n-1].ID)
}

func (a *App) startRename() {
	active, ok := a.vm.Snapshot().Active()
	if !ok {
		a.vm.Flash.Warn("Select a chat first...")
		a.render()
		return
	}
	a.showPrompt(ui.PromptRename, active.Name)
}

func (a *App) deleteSelected() {
	target := a.sidebar.SelectedChat()
	if target == "" {
		target = a.vm.Snapshot().ActiveID
	}
	if target == "" {
		return
	}
	a.vm.DeleteChat(target)
	a.render()
}

func (a *App) focusComposer() {
	if !a.composer.Enabled() {
		a.vm.Flash.Warn(views.DisabledPlaceholder)
		a.render()
		return
	}
	a.app.SetFocus(a.composer)
}

func (a *App) showPrompt(mode ui.PromptMode, initial string) {
	a.prompt.Activate(mode, initial)
	a.root.ResizeItem(a.prompt, promptHeight, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	a.app.SetFocus(a.sidebar)
}

func (a *App) showHelp() {
	if a.pages.Current() == pageHelp {
		return
	}
	a.pages.Push(pageHelp)
	a.app.SetFocus(a.help)
}

func (a *App) closeHelp() {
	a.pages.Pop()
	a.app.SetFocus(a.sidebar)
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	a.vm.Start(a.ctx)
	go a.refreshLoop()

	if err := a.app.Run(); err != nil {
		a.cancel()
		return fmt.Errorf("run tui: %w", err)
	}
	a.cancel()
	return nil
}

func (a *App) refreshLoop() {
	ticker := time.NewTicker(flashTick)
	defer ticker.Stop()
	for {
		select {
		case <-a.vm.RefreshCh():
			a.app.QueueUpdateDraw(a.render)
		case <-ticker.C:
			a.app.QueueUpdateDraw(a.render)
		case <-a.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the TUI. Safe to call more than once.
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		a.cancel()
		a.vm.Stop()
		a.app.Stop()
	})
}
