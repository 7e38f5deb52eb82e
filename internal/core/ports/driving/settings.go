package driving

import "github.com/custodia-labs/docgen-cli/internal/core/domain"

// SettingsService manages the project configuration.
type SettingsService interface {
	// Get resolves settings from the configuration file and defaults.
	Get() (*domain.Settings, error)

	// Save persists settings to the configuration file.
	Save(settings *domain.Settings) error

	// Path returns the configuration file path.
	Path() string

	// Exists reports whether the configuration file exists.
	Exists() bool
}
