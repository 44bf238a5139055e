package tui

import (
	"github.com/custodia-labs/finqa-cli/internal/core/ports/driving"
)

// Ports bundles the driving services the TUI operates on.
type Ports struct {
	// Chat drives the question/answer conversation.
	Chat driving.ChatService
}
