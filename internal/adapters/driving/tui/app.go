// Package tui implements the interactive terminal interface.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/finqa-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/finqa-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/finqa-cli/internal/adapters/driving/tui/styles"
	chatview "github.com/custodia-labs/finqa-cli/internal/adapters/driving/tui/views/chat"
)

// App is the root bubbletea model. It owns the shared styles and
// keymap and delegates everything else to the chat view.
type App struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	chat   *chatview.View
}

// NewApp creates the root TUI model.
func NewApp(ports Ports) *App {
	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		styles: s,
		keymap: km,
		chat:   chatview.NewView(s, km, ports.Chat),
	}
}

// Init initialises the application.
func (a *App) Init() tea.Cmd {
	return a.chat.Init()
}

// Update handles messages for the application.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(messages.Quit); ok {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.chat, cmd = a.chat.Update(msg)
	return a, cmd
}

// View renders the application.
func (a *App) View() string {
	return a.chat.View()
}
