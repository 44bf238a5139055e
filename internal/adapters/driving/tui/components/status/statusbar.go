// Package status provides the status bar component for the TUI.
package status

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/finqa-cli/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

// Display states.
const (
	StateReady     State = "ready"
	StateStreaming State = "streaming"
	StateError     State = "error"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	state   State
	message string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Bar{
		styles: s,
		state:  StateReady,
		width:  80,
	}
}

// SetState updates the display state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current display state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets the status message.
func (b *Bar) SetMessage(msg string) {
	b.message = msg
}

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.styles.StatusBar.Render("enter: ask • pgup/pgdn: scroll • esc: quit")

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	spacer := lipgloss.NewStyle().Width(padding).Render("")
	return left + spacer + right
}

func (b *Bar) renderLeft() string {
	switch b.state {
	case StateStreaming:
		return b.styles.StatusBar.Render("answering...")
	case StateError:
		msg := b.message
		if msg == "" {
			msg = "error"
		}
		return b.styles.Error.Render(msg)
	default:
		return b.styles.StatusBar.Render("ready")
	}
}
