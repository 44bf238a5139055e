// Command finqa is the terminal client for the FinQA document Q&A
// backend.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/finqa-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/finqa-cli/internal/adapters/driven/ragserver"
	"github.com/custodia-labs/finqa-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/finqa-cli/internal/adapters/driven/watcher"
	"github.com/custodia-labs/finqa-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/finqa-cli/internal/core/domain"
	"github.com/custodia-labs/finqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/finqa-cli/internal/core/services"
	"github.com/custodia-labs/finqa-cli/internal/logger"
)

// version is overridden at link time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	store, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initialising config: %w", err)
	}

	settings, err := store.Load()
	if err != nil {
		// A broken config file falls back to defaults rather than
		// blocking the whole client.
		logger.Warn("could not read config, using defaults: %v", err)
	}
	if settings.Verbose {
		logger.SetVerbose(true)
	}

	cli.SetVersion(version)
	cli.SetConfigureHook(func(serverURL string) error {
		return configure(settings, serverURL)
	})

	return cli.Execute()
}

// configure builds the service graph once root flags are parsed. The
// --server flag, when set, overrides the configured backend URL.
func configure(settings domain.Settings, serverURL string) error {
	if serverURL == "" {
		serverURL = settings.ServerURL
	}

	backend := ragserver.NewClient(ragserver.Config{
		BaseURL: serverURL,
		Timeout: settings.RequestTimeout(),
	})

	var fw driven.FileWatcher
	if w, werr := watcher.New(); werr != nil {
		logger.Warn("file watcher unavailable: %v", werr)
	} else {
		fw = w
	}

	cli.SetServices(cli.Services{
		Chat:     services.NewConversation(backend, memory.NewMessageStore()),
		Document: services.NewDocumentService(backend, fw),
	})
	return nil
}
