package driving

import "github.com/custodia-labs/contextguard/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMBaseURL sets the endpoint for Ollama or OpenAI-compatible servers.
	SetLLMBaseURL(baseURL string) error

	// SetMaxDocuments changes the session document limit. Must be at least 1.
	SetMaxDocuments(n int) error

	// SetExportDir sets the default report directory. Empty means the OS temp dir.
	SetExportDir(dir string) error

	// SetExportFormat sets the default report format.
	SetExportFormat(format domain.ExportFormat) error

	// Validate checks that the current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
