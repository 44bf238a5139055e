// Package cli provides the cobra command tree for FinQA.
// Commands drive the core through the driving ports; services are
// injected by the composition root before Execute runs.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/finqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/finqa-cli/internal/logger"
)

// version is the build version, overridden at link time.
var version = "dev"

// Injected services.
var (
	chatService     driving.ChatService
	documentService driving.DocumentService
)

// Root flags.
var (
	verboseFlag bool
	serverFlag  string
)

// configureHook lets the composition root rebuild services once root
// flags (notably --server) have been parsed.
var configureHook func(serverURL string) error

var rootCmd = &cobra.Command{
	Use:   "finqa",
	Short: "Ask questions about your financial documents",
	Long: `FinQA is a terminal client for a RAG-based financial statement
Q&A backend. Upload PDF statements, then ask questions about them and
get streamed answers with the supporting passages.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if verboseFlag {
			logger.SetVerbose(true)
		}
		if configureHook != nil {
			return configureHook(serverFlag)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "backend base URL (overrides config)")
}

// Services bundles the driving ports the commands need.
type Services struct {
	Chat     driving.ChatService
	Document driving.DocumentService
}

// SetServices injects the core services into the command tree.
func SetServices(s Services) {
	chatService = s.Chat
	documentService = s.Document
}

// SetConfigureHook registers a callback invoked after root flags are
// parsed, before any command runs.
func SetConfigureHook(hook func(serverURL string) error) {
	configureHook = hook
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// requireChatService guards commands that need the chat port.
func requireChatService() error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	return nil
}

// requireDocumentService guards commands that need the document port.
func requireDocumentService() error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	return nil
}
