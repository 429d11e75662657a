// Command contextguard checks documents for contradictions.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/contextguard/internal/adapters/driven/ai"
	"github.com/custodia-labs/contextguard/internal/adapters/driven/config/file"
	exportfile "github.com/custodia-labs/contextguard/internal/adapters/driven/export/file"
	"github.com/custodia-labs/contextguard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/contextguard/internal/adapters/driving/cli"
	"github.com/custodia-labs/contextguard/internal/connectors/filesystem"
	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
	"github.com/custodia-labs/contextguard/internal/core/services"
	"github.com/custodia-labs/contextguard/internal/logger"
	"github.com/custodia-labs/contextguard/internal/normalisers"
	"github.com/custodia-labs/contextguard/internal/postprocessors"
	"github.com/custodia-labs/contextguard/internal/postprocessors/chunker"
	"github.com/custodia-labs/contextguard/internal/postprocessors/citation"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// apiKeyEnv names the environment variable read when no API key is configured.
var apiKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine.
	_ = godotenv.Load()

	dir, err := file.DefaultDir()
	if err != nil {
		return err
	}
	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	promptStore, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	applyEnvAPIKey(&settings.LLM)

	aiResult := ai.Initialise(&settings.LLM, promptStore, ai.WithRateLimit(ai.DefaultRateLimit))
	defer aiResult.Close()
	for _, w := range aiResult.Warnings {
		logger.Warn("%s", w)
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := postprocessors.BuildPipeline(registry, settingsService.GetPipelineConfig())
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	store := memory.NewDocumentStore(settings.Check.MaxDocuments)
	checkService := services.NewCheckService(
		store,
		pipeline,
		aiResult.Detector,
		citation.NewLocator(settings.Check.PrefixLength),
	)
	importService := services.NewImportService(filesystem.NewLoader(), normalisers.DefaultRegistry(), store)
	reportService := services.NewReportService(checkService, exportfile.NewReportWriter(settings.Export.Dir))

	cli.SetServices(cli.Services{
		Check:    checkService,
		Import:   importService,
		Report:   reportService,
		Settings: settingsService,
		DemoSession: func() driving.CheckService {
			return newDemoSession(registry)
		},
		ExportFormat: settings.Export.Format,
	})
	cli.SetTUIConfig(&cli.TUIConfig{ExportFormat: settings.Export.Format})
	cli.SetVersion(version, commit, date)

	return cli.Execute()
}

// applyEnvAPIKey fills a missing API key from the provider's environment variable.
func applyEnvAPIKey(llm *domain.LLMSettings) {
	if llm.APIKey != "" {
		return
	}
	if name, ok := apiKeyEnv[llm.Provider]; ok {
		llm.APIKey = os.Getenv(name)
	}
}

// newDemoSession builds a check session for the bundled walkthrough. Its
// settings come from an in-memory store holding only defaults, so the
// user's config file cannot change the demo's limits or prompt layout.
func newDemoSession(registry *postprocessors.Registry) driving.CheckService {
	demoSettings := services.NewSettingsService(memory.NewConfigStore(), nil)
	settings, err := demoSettings.Get()
	if err != nil {
		defaults := demoSettings.GetDefaults()
		settings = &defaults
	}
	pipeline, err := postprocessors.BuildPipeline(registry, demoSettings.GetPipelineConfig())
	if err != nil {
		logger.Warn("demo pipeline: %v", err)
		pipeline = postprocessors.NewPipeline(chunker.New())
	}
	return services.NewCheckService(
		memory.NewDocumentStore(settings.Check.MaxDocuments),
		pipeline,
		ai.NewDemoDetector(),
		citation.NewLocator(settings.Check.PrefixLength),
	)
}
