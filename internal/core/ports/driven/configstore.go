package driven

import "github.com/custodia-labs/finqa-cli/internal/core/domain"

// ConfigStore loads and persists user settings.
type ConfigStore interface {
	// Load reads the current settings, applying defaults for any
	// missing values. A missing config file is not an error.
	Load() (domain.Settings, error)

	// Save persists the settings.
	Save(settings domain.Settings) error
}
