package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/contextguard/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the language model provider, the document limit and
report export options.

Use subcommands to configure specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long: `Configure the language model that checks documents for contradictions.

Available providers:
  ollama     - Local Ollama server (no API key)
  openai     - OpenAI API (API key required)
  anthropic  - Anthropic API (API key required)
  demo       - Bundled demo results, no model`,
	RunE: runSettingsLLM,
}

var settingsBaseURLCmd = &cobra.Command{
	Use:   "base-url [url]",
	Short: "Set the LLM endpoint",
	Long:  `Set the endpoint for Ollama or an OpenAI-compatible server. An empty value restores the default.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsBaseURL,
}

var settingsMaxDocumentsCmd = &cobra.Command{
	Use:   "max-documents [n]",
	Short: "Set how many documents one check may load",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsMaxDocuments,
}

var settingsExportDirCmd = &cobra.Command{
	Use:   "export-dir [dir]",
	Short: "Set where reports are written",
	Long:  `Set the directory reports are exported to. An empty value uses the system temp directory.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsExportDir,
}

var settingsExportFormatCmd = &cobra.Command{
	Use:   "export-format [format]",
	Short: "Set the default report format (text, markdown or json)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsExportFormat,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsBaseURLCmd)
	settingsCmd.AddCommand(settingsMaxDocumentsCmd)
	settingsCmd.AddCommand(settingsExportDirCmd)
	settingsCmd.AddCommand(settingsExportFormatCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// LLM settings
	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" || settings.LLM.Provider == domain.AIProviderOllama {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured (demo results are used)"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	// Check settings
	cmd.Println("[Check]")
	cmd.Printf("  Max documents: %d\n", settings.Check.MaxDocuments)
	cmd.Printf("  Quote prefix length: %d\n", settings.Check.PrefixLength)
	cmd.Println()

	// Export settings
	cmd.Println("[Export]")
	dir := settings.Export.Dir
	if dir == "" {
		dir = "(system temp directory)"
	}
	cmd.Printf("  Directory: %s\n", dir)
	cmd.Printf("  Format: %s\n", settings.Export.Format)
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'contextguard settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("ContextGuard Settings Wizard")
	cmd.Println("============================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: LLM provider
	cmd.Println("Step 1: Configure LLM Provider")
	cmd.Println("------------------------------")
	if err := configureLLMProvider(cmd, reader); err != nil {
		return err
	}

	// Step 2: Document limit
	cmd.Println("Step 2: Document Limit")
	cmd.Println("----------------------")
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Maximum documents per check [%d]: ", settings.Check.MaxDocuments)
	input := readLine(reader)
	if input != "" {
		n, err := strconv.Atoi(input)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: max documents must be a positive number", domain.ErrInvalidInput)
		}
		if err := settingsService.SetMaxDocuments(n); err != nil {
			return fmt.Errorf("failed to set max documents: %w", err)
		}
	}
	cmd.Println()

	// Step 3: Export format
	cmd.Println("Step 3: Report Format")
	cmd.Println("---------------------")
	formats := domain.AllExportFormats()
	for i, f := range formats {
		cmd.Printf("  %d. %s\n", i+1, f)
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(formats), 1)
	if err := settingsService.SetExportFormat(formats[idx-1]); err != nil {
		return fmt.Errorf("failed to set export format: %w", err)
	}
	cmd.Println()

	// Final validation
	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func runSettingsBaseURL(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	url := ""
	if len(args) == 1 {
		url = strings.TrimSpace(args[0])
	}
	if err := settingsService.SetLLMBaseURL(url); err != nil {
		return fmt.Errorf("failed to set base URL: %w", err)
	}

	if url == "" {
		cmd.Println("Base URL reset to the provider default.")
	} else {
		cmd.Printf("Base URL set to: %s\n", url)
	}
	return nil
}

func runSettingsMaxDocuments(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	n, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || n < 1 {
		return fmt.Errorf("%w: max documents must be a positive number", domain.ErrInvalidInput)
	}
	if err := settingsService.SetMaxDocuments(n); err != nil {
		return fmt.Errorf("failed to set max documents: %w", err)
	}

	cmd.Printf("Max documents set to: %d\n", n)
	return nil
}

func runSettingsExportDir(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	dir := ""
	if len(args) == 1 {
		dir = strings.TrimSpace(args[0])
	}
	if err := settingsService.SetExportDir(dir); err != nil {
		return fmt.Errorf("failed to set export directory: %w", err)
	}

	if dir == "" {
		cmd.Println("Reports will be written to the system temp directory.")
	} else {
		cmd.Printf("Export directory set to: %s\n", dir)
	}
	return nil
}

func runSettingsExportFormat(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	format := domain.ExportFormat(strings.ToLower(strings.TrimSpace(args[0])))
	if !format.IsValid() {
		return fmt.Errorf("%w: unknown format %q (use text, markdown or json)", domain.ErrInvalidInput, args[0])
	}
	if err := settingsService.SetExportFormat(format); err != nil {
		return fmt.Errorf("failed to set export format: %w", err)
	}

	cmd.Printf("Export format set to: %s\n", format)
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	model := defaultModel
	if selectedProvider != domain.AIProviderDemo {
		cmd.Printf("Enter model name [%s]: ", defaultModel)
		if entered := readLine(reader); entered != "" {
			model = entered
		}
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd, reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when the command input is a terminal,
// else a plain line from reader.
func readPassword(cmd *cobra.Command, reader *bufio.Reader) string {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
