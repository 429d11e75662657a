// Package cli provides the cobra command tree for contextguard.
// It is a driving adapter: commands only talk to the driving ports.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/core/ports/driving"
	"github.com/custodia-labs/contextguard/internal/logger"
)

// Build information, set from main.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var verbose bool

// Services used by the commands. Set once from main before Execute.
var (
	checkService    driving.CheckService
	importService   driving.ImportService
	reportService   driving.ReportService
	settingsService driving.SettingsService

	// newDemoSession returns a fresh session backed by the demo detector.
	newDemoSession func() driving.CheckService

	defaultExportFormat = domain.ExportFormatText
)

var rootCmd = &cobra.Command{
	Use:   "contextguard",
	Short: "Find contradictions in your documents",
	Long: `ContextGuard checks up to three documents for statements that contradict
each other, within one document or across several, and shows where each
conflicting passage lives.

Supported files: .txt, .md, .html, .docx and .pdf.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
}

// Services groups the driving ports the commands use.
type Services struct {
	Check    driving.CheckService
	Import   driving.ImportService
	Report   driving.ReportService
	Settings driving.SettingsService

	// DemoSession creates an empty session that answers with demo results.
	DemoSession func() driving.CheckService

	// ExportFormat is the report format used when --format is not given.
	ExportFormat domain.ExportFormat
}

// SetServices wires the driving ports into the commands.
func SetServices(s Services) {
	checkService = s.Check
	importService = s.Import
	reportService = s.Report
	settingsService = s.Settings
	newDemoSession = s.DemoSession
	if s.ExportFormat.IsValid() {
		defaultExportFormat = s.ExportFormat
	}
}

// SetVersion sets the build information shown by the version command.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
