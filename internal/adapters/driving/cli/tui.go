package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/contextguard/internal/adapters/driving/tui"
	"github.com/custodia-labs/contextguard/internal/connectors/filesystem"
	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
)

// TUIConfig holds configuration for the TUI command.
// Nil services fall back to the ones set with SetServices.
type TUIConfig struct {
	CheckService  driving.CheckService
	ImportService driving.ImportService
	ReportService driving.ReportService
	ExportFormat  domain.ExportFormat
}

// tuiConfig holds the current TUI configuration.
var tuiConfig *TUIConfig

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [files...]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for ContextGuard.

Files given on the command line are loaded before the UI opens. In the UI
you can add and remove documents, run a check, browse the issues and jump
to the paragraph each quote comes from.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Open
  a        - Add files (Documents)
  r        - Run check
  e        - Export report (Issues)
  Esc      - Back / Cancel
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	tuiConfig = config
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	// Build ports from configuration
	ports := tui.NewPorts(checkService, importService, reportService)
	format := defaultExportFormat

	if tuiConfig != nil {
		if tuiConfig.CheckService != nil {
			ports.Check = tuiConfig.CheckService
		}
		if tuiConfig.ImportService != nil {
			ports.Import = tuiConfig.ImportService
		}
		if tuiConfig.ReportService != nil {
			ports.Report = tuiConfig.ReportService
		}
		if tuiConfig.ExportFormat.IsValid() {
			format = tuiConfig.ExportFormat
		}
	}

	if len(args) > 0 {
		if ports.Import == nil {
			return errors.New("import service not configured")
		}
		paths, err := filesystem.ExpandPaths(args)
		if err != nil {
			return err
		}
		if _, err := ports.Import.ImportFiles(cmd.Context(), paths); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
	}

	// Create the TUI app
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Set up context from command
	app.WithContext(cmd.Context()).WithExportFormat(format)

	// Create and run the bubbletea program
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
