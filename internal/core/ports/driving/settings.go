package driving

import "github.com/exonascope/exonascope-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set parses and stores a single setting by key.
	Set(key, value string) error

	// Unset reverts a single setting to its default.
	Unset(key string) error

	// Keys lists the settable keys.
	Keys() []string

	// UnknownKeys lists stored keys that no setting reads, such as typos
	// in a hand-edited config file.
	UnknownKeys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
