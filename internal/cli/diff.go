package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgbisect/pkgbisect/internal/delta"
	"github.com/pkgbisect/pkgbisect/internal/engine"
)

var diffCmd = &cobra.Command{
	Use:   "diff <good-snapshot> <bad-snapshot>",
	Short: "Show the package changes between two snapshots",
	Long:  `Compute and categorize the package changes between two snapshots without starting a session.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		req := &engine.DiffRequest{GoodID: args[0], BadID: args[1]}
		result, err := eng.Diff(context.Background(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		set := result.Delta
		PrintSection(fmt.Sprintf("%s -> %s: %s",
			set.GoodSnapshotID, set.BadSnapshotID,
			PrintCount(set.Len(), "package change", "package changes")))

		if set.Len() == 0 {
			PrintEmptyState("The snapshots have identical package manifests.")
			return nil
		}

		sections := []struct {
			title string
			kind  delta.Kind
		}{
			{"Upgraded", delta.KindUpgraded},
			{"Downgraded", delta.KindDowngraded},
			{"Added", delta.KindAdded},
			{"Removed", delta.KindRemoved},
		}
		for _, section := range sections {
			entries := set.ByKind(section.kind)
			if len(entries) == 0 {
				continue
			}
			PrintLabelValue(section.title, fmt.Sprintf("%d", len(entries)))
			items := make([]string, 0, len(entries))
			for _, d := range entries {
				items = append(items, formatDelta(d))
			}
			PrintList(items, 2)
		}
		return nil
	},
}
