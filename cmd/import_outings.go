package cmd

import (
	"fmt"

	"transect-admin/backend/database"
	"transect-admin/backend/importer"

	"github.com/spf13/cobra"
)

func importOutingsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-outings [tsv-file]",
		Short: "Import outing data from a tab-delimited sheet export",
		Long: `Import outing data from a tab-delimited sheet export.

The first four lines of the file are skipped as headers. Each data row
creates one outing keyed on (date, line); re-running the command on the
same file does not duplicate outings. Unknown participant initials create
team members, and rows with a note spawn one issue on the outing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := importer.ImportOutings(database.DB, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Successfully imported outing data: %d created, %d existing, %d issues, %d members, %d rows skipped\n",
				stats.OutingsCreated, stats.OutingsExisting, stats.IssuesCreated, stats.MembersCreated, stats.RowsSkipped)
			return nil
		},
	}
}
