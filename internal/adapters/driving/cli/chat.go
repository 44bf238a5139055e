package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/finqa-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat UI",
	Long: `Launch the interactive terminal chat for FinQA.

Answers stream into the transcript token by token, with the
supporting passages listed under each answer.

Controls:
  Enter      - Submit question
  PgUp/PgDn  - Scroll transcript
  Ctrl+C/Esc - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	if err := requireChatService(); err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("chat requires an interactive terminal; use 'finqa ask' instead")
	}

	app := tui.NewApp(tui.Ports{Chat: chatService})

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat UI failed: %w", err)
	}
	return nil
}
