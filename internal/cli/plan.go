package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgbisect/pkgbisect/internal/engine"
	"github.com/pkgbisect/pkgbisect/internal/plan"
)

var (
	planRevert bool
	planApply  bool
)

var planCmd = &cobra.Command{
	Use:   "plan [session-id]",
	Short: "Show or apply the package operations for the current test state",
	Long: `Compute the ordered package operations that materialize the session's
current test state: every change up to the suspect midpoint applied at its
bad-snapshot version, everything after pinned at the good-snapshot version.

With --revert, plan the return to the full good-snapshot state instead.
With --apply, hand the operations to the host package manager.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		req := &engine.PlanRequest{
			Revert: planRevert,
			Apply:  planApply,
		}
		if len(args) > 0 {
			req.SessionID = args[0]
		}

		result, err := eng.Plan(context.Background(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if planRevert {
			PrintSection("Revert to good state")
		} else {
			PrintSection("Test state")
		}

		rows := make([][]string, 0, len(result.Plan.Operations))
		for _, op := range result.Plan.Operations {
			rows = append(rows, []string{op.Op, op.Name, op.Version})
		}
		PrintTable([]string{"Op", "Package", "Version"}, rows)

		fmt.Println()
		PrintLabelValue("Operations", fmt.Sprintf("%d remove, %d install, %d noop",
			result.Plan.Removes(), result.Plan.Installs(), result.Plan.Noops()))

		if result.Applied {
			PrintSuccess("Plan applied.")
		} else if !planApply && countMutations(result.Plan) > 0 {
			PrintInfo("  Run with --apply to hand these operations to the package manager.")
		}
		return nil
	},
}

func countMutations(p *plan.Plan) int {
	return p.Installs() + p.Removes()
}

func init() {
	planCmd.Flags().BoolVar(&planRevert, "revert", false, "Plan the return to the full good-snapshot state")
	planCmd.Flags().BoolVar(&planApply, "apply", false, "Execute the plan with the host package manager")
}
