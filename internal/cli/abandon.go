package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgbisect/pkgbisect/internal/engine"
)

var abandonCmd = &cobra.Command{
	Use:   "abandon [session-id]",
	Short: "Abandon a bisection session",
	Long: `Move the session (default: current) to the terminal abandoned state.

The session record is kept; use 'pkgbisect plan --revert --apply' first if
the system is still in an intermediate test state.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		req := &engine.AbandonRequest{}
		if len(args) > 0 {
			req.SessionID = args[0]
		}

		result, err := eng.Abandon(context.Background(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Abandoned session %s after %s",
			result.Session.ID,
			PrintCount(result.Session.StepsTaken(), "verdict", "verdicts")))
		return nil
	},
}
