package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contextguard/internal/connectors/filesystem"
	"github.com/custodia-labs/contextguard/internal/core/domain"
)

var chunksCmd = &cobra.Command{
	Use:   "chunks [files...]",
	Short: "Print the paragraph chunks sent to the model",
	Long: `Load documents and print them the way the check sends them to the
language model: one line per paragraph, tagged with the document title
and paragraph number, for example "[Trip.txt §2] We leave at 9:00 AM."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChunks,
}

func init() {
	rootCmd.AddCommand(chunksCmd)
}

func runChunks(cmd *cobra.Command, args []string) error {
	if checkService == nil {
		return errors.New("check service not configured")
	}
	if importService == nil {
		return errors.New("import service not configured")
	}

	paths, err := filesystem.ExpandPaths(args)
	if err != nil {
		return err
	}

	checkService.Clear()
	if err := importPaths(cmd.Context(), cmd, paths); err != nil {
		return err
	}
	if len(checkService.Documents()) == 0 {
		return domain.ErrNoDocuments
	}

	cmd.Println(checkService.Chunks())
	return nil
}
