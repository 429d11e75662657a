package services

import (
	"fmt"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driven"
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyCheckMaxDocuments = "check.max_documents"
	keyCheckPrefixLength = "check.prefix_length"
	keyExportDir         = "export.dir"
	keyExportFormat      = "export.format"
)

// defaultOllamaURL is used when Ollama is selected without a base URL.
const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Check: domain.CheckSettings{
			MaxDocuments: s.getPositiveInt(keyCheckMaxDocuments, defaults.Check.MaxDocuments),
			PrefixLength: s.getPositiveInt(keyCheckPrefixLength, defaults.Check.PrefixLength),
		},
		Export: domain.ExportSettings{
			Dir:    s.configStore.GetString(keyExportDir),
			Format: s.getExportFormat(defaults.Export.Format),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save check settings
	if err := s.configStore.Set(keyCheckMaxDocuments, settings.Check.MaxDocuments); err != nil {
		return fmt.Errorf("save check max_documents: %w", err)
	}
	if err := s.configStore.Set(keyCheckPrefixLength, settings.Check.PrefixLength); err != nil {
		return fmt.Errorf("save check prefix_length: %w", err)
	}

	// Save export settings
	if err := s.configStore.Set(keyExportDir, settings.Export.Dir); err != nil {
		return fmt.Errorf("save export dir: %w", err)
	}
	if err := s.configStore.Set(keyExportFormat, string(settings.Export.Format)); err != nil {
		return fmt.Errorf("save export format: %w", err)
	}

	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	switch provider {
	case domain.AIProviderOllama:
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = defaultOllamaURL
		}
	default:
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMBaseURL sets the endpoint for Ollama or OpenAI-compatible servers.
func (s *SettingsService) SetLLMBaseURL(baseURL string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.LLM.BaseURL = baseURL
	return s.Save(settings)
}

// SetMaxDocuments changes the session document limit.
func (s *SettingsService) SetMaxDocuments(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: max documents must be at least 1, got %d", domain.ErrInvalidInput, n)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Check.MaxDocuments = n
	return s.Save(settings)
}

// SetExportDir sets the default report directory.
func (s *SettingsService) SetExportDir(dir string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Export.Dir = dir
	return s.Save(settings)
}

// SetExportFormat sets the default report format.
func (s *SettingsService) SetExportFormat(format domain.ExportFormat) error {
	if !format.IsValid() {
		return fmt.Errorf("%w: export format %q", domain.ErrUnsupportedType, format)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Export.Format = format
	return s.Save(settings)
}

// Validate checks that the current settings are usable for a check.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider is not configured; run `contextguard settings llm`")
	}
	if settings.Check.MaxDocuments < 1 {
		return fmt.Errorf("invalid max documents: %d", settings.Check.MaxDocuments)
	}
	if !settings.Export.Format.IsValid() {
		return fmt.Errorf("invalid export format: %s", settings.Export.Format)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// GetPipelineConfig returns the post-processor pipeline configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	defaults := domain.DefaultPipelineConfig()

	if processors := s.configStore.GetStringSlice("pipeline.processors"); len(processors) > 0 {
		defaults.Processors = processors
	}

	for _, name := range defaults.Processors {
		cfg := s.loadProcessorConfig("pipeline." + name + ".")
		if len(cfg) == 0 {
			continue
		}
		if defaults.ProcessorConfigs == nil {
			defaults.ProcessorConfigs = make(map[string]map[string]any)
		}
		existing := defaults.ProcessorConfigs[name]
		if existing == nil {
			existing = make(map[string]any)
		}
		for k, v := range cfg {
			existing[k] = v
		}
		defaults.ProcessorConfigs[name] = existing
	}

	return defaults
}

// loadProcessorConfig loads config keys with a given prefix into a map.
func (s *SettingsService) loadProcessorConfig(prefix string) map[string]any {
	cfg := make(map[string]any)

	knownKeys := []string{"separator"}
	for _, key := range knownKeys {
		if val, exists := s.configStore.Get(prefix + key); exists {
			cfg[key] = val
		}
	}

	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val < 1 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getExportFormat(defaultVal domain.ExportFormat) domain.ExportFormat {
	val := domain.ExportFormat(s.configStore.GetString(keyExportFormat))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}
