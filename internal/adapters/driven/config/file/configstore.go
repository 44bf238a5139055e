// Package file provides a TOML file-based configuration store.
// Settings live in a config.toml inside the finqa config directory.
package file

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/finqa-cli/internal/core/domain"
	"github.com/custodia-labs/finqa-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// configFileName is the settings file inside the config directory.
const configFileName = "config.toml"

// ConfigStore is a file-based implementation of driven.ConfigStore
// using TOML.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.finqa/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".finqa")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, configFileName),
	}, nil
}

// Load reads the settings file, applying defaults for missing values.
// A missing file yields pure defaults, not an error.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, err
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return domain.DefaultSettings(), err
	}
	if settings.ServerURL == "" {
		settings.ServerURL = domain.DefaultServerURL
	}
	return settings, nil
}

// Save persists the settings atomically via a rename.
func (s *ConfigStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}

// Path returns the settings file location.
func (s *ConfigStore) Path() string {
	return s.filePath
}
