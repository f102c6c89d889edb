package cmd

import (
	"fmt"

	"transect-admin/backend/database"
	"transect-admin/backend/importer"

	"github.com/spf13/cobra"
)

func importBaitoutCommand() *cobra.Command {
	var commit bool
	var limit int

	cmd := &cobra.Command{
		Use:   "import-baitout [tag] [csv-file]",
		Short: "Import issues from a pipe-delimited baitout report",
		Long: `Import issues from a pipe-delimited baitout report.

Each row's station name (e.g. "ABC12") is resolved to a line by splitting
off the trailing digits and matching name variants against the known lines;
free text is classified into station and issue types. Without --commit the
run is a dry run that only logs what it would create.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := importer.ImportBaitout(database.DB, args[1], importer.BaitoutOptions{
				Tag:    args[0],
				Commit: commit,
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Successfully imported baitout data, created %d issues (%d rows skipped, commit=%v)\n",
				stats.Created, stats.RowsSkipped, commit)
			return nil
		},
	}

	cmd.Flags().BoolVar(&commit, "commit", false, "commit created issues instead of a dry run")
	cmd.Flags().IntVar(&limit, "limit", 0, "cap on number of created issues (0 = no cap)")

	return cmd
}
