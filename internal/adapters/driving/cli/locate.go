package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contextguard/internal/connectors/filesystem"
	"github.com/custodia-labs/contextguard/internal/core/domain"
)

var locateTitle string

var locateCmd = &cobra.Command{
	Use:   "locate [quote] [files...]",
	Short: "Find the paragraph a quote comes from",
	Long: `Load documents and print the number of the paragraph that contains the
quote. Matching ignores case and compares the start of the quote, so a
lightly reworded quote is still found.

By default the first loaded document is searched. Use --title to pick
another one by file name.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().StringVarP(&locateTitle, "title", "t", "", "title (file name) of the document to search")
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	if checkService == nil {
		return errors.New("check service not configured")
	}
	if importService == nil {
		return errors.New("import service not configured")
	}

	quote := args[0]
	paths, err := filesystem.ExpandPaths(args[1:])
	if err != nil {
		return err
	}

	checkService.Clear()
	if err := importPaths(cmd.Context(), cmd, paths); err != nil {
		return err
	}
	docs := checkService.Documents()
	if len(docs) == 0 {
		return domain.ErrNoDocuments
	}

	title := locateTitle
	if title == "" {
		title = docs[0].Title
	}

	n := checkService.Locate(quote, title)
	if n == 0 {
		return fmt.Errorf("%w: quote not found in %s", domain.ErrNotFound, title)
	}
	cmd.Printf("%s §%d\n", title, n)
	return nil
}
