package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contextguard/internal/connectors/filesystem"
	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/logger"
)

var (
	checkFormat string
	checkJSON   bool
	checkExport bool
	checkWatch  bool
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Check documents for contradictions",
	Long: `Load up to the configured number of documents and check them for
statements that contradict each other.

Directories are expanded to the files directly inside them. Files beyond
the document limit, unreadable files and files without text are skipped.

With --watch the check runs again whenever one of the files changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "", "report format: text, markdown or json")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output the report as JSON (same as --format json)")
	checkCmd.Flags().BoolVarP(&checkExport, "export", "e", false, "also write the report to the export directory")
	checkCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "check again when a file changes")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkService == nil {
		return errors.New("check service not configured")
	}
	if importService == nil {
		return errors.New("import service not configured")
	}
	if reportService == nil {
		return errors.New("report service not configured")
	}

	format, err := resolveFormat(checkFormat, checkJSON)
	if err != nil {
		return err
	}

	paths, err := filesystem.ExpandPaths(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	checkService.Clear()
	if err := importPaths(ctx, cmd, paths); err != nil {
		return err
	}
	if len(checkService.Documents()) == 0 {
		return domain.ErrNoDocuments
	}

	if err := runAndPrint(ctx, cmd, format); err != nil && !checkWatch {
		return err
	}
	if !checkWatch {
		return nil
	}
	return watchAndCheck(ctx, cmd, paths, format)
}

// resolveFormat picks the report format from the flags, falling back to the
// configured default.
func resolveFormat(name string, asJSON bool) (domain.ExportFormat, error) {
	if asJSON {
		return domain.ExportFormatJSON, nil
	}
	if name == "" {
		return defaultExportFormat, nil
	}
	format := domain.ExportFormat(strings.ToLower(name))
	if !format.IsValid() {
		return "", fmt.Errorf("%w: unknown format %q (use text, markdown or json)", domain.ErrInvalidInput, name)
	}
	return format, nil
}

// importPaths loads paths into the session and reports skipped files on stderr.
func importPaths(ctx context.Context, cmd *cobra.Command, paths []string) error {
	result, err := importService.ImportFiles(ctx, paths)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	skipped := make([]string, 0, len(result.Skipped))
	for path := range result.Skipped {
		skipped = append(skipped, path)
	}
	sort.Strings(skipped)
	for _, path := range skipped {
		cmd.PrintErrf("Skipped %s: %v\n", path, result.Skipped[path])
	}
	return nil
}

// runAndPrint runs the check and prints the report, or the failure message.
func runAndPrint(ctx context.Context, cmd *cobra.Command, format domain.ExportFormat) error {
	if err := checkService.Run(ctx); err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	state := checkService.State()
	if state.IsFailed() {
		return errors.New(state.Message)
	}

	text, err := reportService.Format(format)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	cmd.Println(text)

	if checkExport {
		path, err := reportService.Export(ctx, format)
		if err != nil {
			return fmt.Errorf("failed to export report: %w", err)
		}
		cmd.PrintErrf("Report saved to %s\n", path)
	}
	return nil
}

// watchAndCheck reloads changed files and checks again until interrupted.
func watchAndCheck(ctx context.Context, cmd *cobra.Command, paths []string, format domain.ExportFormat) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	watcher := filesystem.NewWatcher()
	defer watcher.Close()

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}

	changes, err := watcher.Watch(ctx, existing)
	if err != nil {
		return fmt.Errorf("failed to watch files: %w", err)
	}
	cmd.PrintErrln("Watching for changes. Press Ctrl+C to stop.")

	for change := range changes {
		applyChange(ctx, cmd, change)
		if len(checkService.Documents()) == 0 {
			cmd.PrintErrln("No documents loaded.")
			continue
		}
		cmd.Println()
		if err := runAndPrint(ctx, cmd, format); err != nil {
			if ctx.Err() != nil {
				break
			}
			cmd.PrintErrf("Error: %v\n", err)
		}
	}
	return nil
}

// applyChange replaces the session document for a changed file.
func applyChange(ctx context.Context, cmd *cobra.Command, change domain.RawDocumentChange) {
	uri := change.Document.URI
	for _, doc := range checkService.Documents() {
		if doc.URI == uri {
			checkService.RemoveDocument(doc.ID)
		}
	}

	switch change.Type {
	case domain.ChangeDeleted:
		cmd.PrintErrf("Removed %s\n", uri)
	default:
		logger.Debug("reloading %s", uri)
		if err := importPaths(ctx, cmd, []string{uri}); err != nil {
			cmd.PrintErrf("Error: %v\n", err)
			return
		}
		cmd.PrintErrf("Reloaded %s\n", uri)
	}
}
