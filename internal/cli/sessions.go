package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List persisted bisection sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		result, err := eng.Sessions(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSection("Sessions")
		if len(result.Sessions) == 0 {
			PrintEmptyState("No sessions. Start one with 'pkgbisect start'.")
			return nil
		}

		rows := make([][]string, 0, len(result.Sessions))
		for _, s := range result.Sessions {
			marker := ""
			if s.Current {
				marker = "*"
			}
			rows = append(rows, []string{
				marker,
				s.ID,
				string(s.State),
				fmt.Sprintf("%d", s.Packages),
				fmt.Sprintf("%d", s.StepsTaken),
			})
		}
		PrintTable([]string{"", "ID", "State", "Changes", "Verdicts"}, rows)
		return nil
	},
}
