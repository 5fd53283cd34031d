package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgbisect/pkgbisect/internal/engine"
)

var snapshotsVerbose bool

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List system snapshots from the detected backend",
	Long: `List the snapshots known to the host's snapshot backend (timeshift,
snapper, a bare btrfs /.snapshots tree, or lvm).

With --verbose, each snapshot's package database is read for a package
count, which can be slow.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		req := &engine.SnapshotsRequest{Verbose: snapshotsVerbose}
		result, err := eng.Snapshots(context.Background(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection(fmt.Sprintf("Snapshots (%s)", result.Backend))
		if len(result.Snapshots) == 0 {
			PrintEmptyState("No snapshots found.")
			return nil
		}

		headers := []string{"ID", "Created", "Description"}
		if snapshotsVerbose {
			headers = append(headers, "Packages")
		}
		rows := make([][]string, 0, len(result.Snapshots))
		for _, s := range result.Snapshots {
			row := []string{s.ID, s.Created, s.Description}
			if snapshotsVerbose {
				count := "?"
				if s.PackageCount >= 0 {
					count = fmt.Sprintf("%d", s.PackageCount)
				}
				row = append(row, count)
			}
			rows = append(rows, row)
		}
		PrintTable(headers, rows)
		return nil
	},
}

func init() {
	snapshotsCmd.Flags().BoolVarP(&snapshotsVerbose, "verbose", "v", false, "Read each snapshot's package count")
}
