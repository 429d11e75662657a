package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for the contradiction detector.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderDemo answers with the bundled demo issues and never calls a model.
	AIProviderDemo AIProvider = "demo"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderDemo:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderDemo
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderDemo:
		return "Demo (bundled results)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// DefaultMaxDocuments is how many documents one session may hold.
const DefaultMaxDocuments = 3

// DefaultPrefixLength is how many characters of a quote are used to find its paragraph.
const DefaultPrefixLength = 30

// CheckSettings holds analysis settings.
type CheckSettings struct {
	// MaxDocuments bounds the session document store. Must be at least 1.
	MaxDocuments int

	// PrefixLength is the quote prefix used by the citation resolver.
	PrefixLength int
}

// ExportFormat selects a report rendering.
type ExportFormat string

// Available export formats.
const (
	ExportFormatText     ExportFormat = "text"
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// IsValid returns true if the format is recognised.
func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportFormatText, ExportFormatMarkdown, ExportFormatJSON:
		return true
	default:
		return false
	}
}

// Extension returns the file extension for the format, without the dot.
func (f ExportFormat) Extension() string {
	switch f {
	case ExportFormatMarkdown:
		return "md"
	case ExportFormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// AllExportFormats returns every supported export format.
func AllExportFormats() []ExportFormat {
	return []ExportFormat{ExportFormatText, ExportFormatMarkdown, ExportFormatJSON}
}

// ExportSettings holds report export configuration.
type ExportSettings struct {
	// Dir is the output directory. Empty means the OS temp directory.
	Dir string

	// Format is the default export format.
	Format ExportFormat
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Check holds analysis settings.
	Check CheckSettings

	// Export holds report export settings.
	Export ExportSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured; users set it up via `settings llm`.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{},
		Check: CheckSettings{
			MaxDocuments: DefaultMaxDocuments,
			PrefixLength: DefaultPrefixLength,
		},
		Export: ExportSettings{
			Format: ExportFormatText,
		},
	}
}

// AllLLMProviders returns providers that can back the contradiction detector.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderDemo,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderDemo:      "demo",
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so processors can be added without
// modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration:
// paragraph chunking with single-newline separators.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"paragraph"},
		ProcessorConfigs: map[string]map[string]any{
			"paragraph": {
				"separator": "\n",
			},
		},
	}
}
