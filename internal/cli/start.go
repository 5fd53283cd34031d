package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgbisect/pkgbisect/internal/engine"
)

var (
	startGoodID string
	startBadID  string
)

var startCmd = &cobra.Command{
	Use:   "start --good <snapshot> --bad <snapshot>",
	Short: "Start a bisection between two snapshots",
	Long: `Compute the package changes between a known-good and a known-bad snapshot
and start a binary search over them.

The new session becomes the current session; good/bad verdicts apply to it
until it terminates or another session is started.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		req := &engine.StartRequest{
			GoodID: startGoodID,
			BadID:  startBadID,
		}

		result, err := eng.Start(context.Background(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintSuccess(fmt.Sprintf("Started session %s", result.Session.ID))
		PrintLabelValue("Good snapshot", result.Session.Delta.GoodSnapshotID)
		PrintLabelValue("Bad snapshot", result.Session.Delta.BadSnapshotID)
		PrintLabelValue("Package changes", fmt.Sprintf("%d", result.Session.Delta.Len()))
		PrintLabelValue("Verdicts needed", fmt.Sprintf("at most %d", result.Session.RemainingSteps()))

		printCandidate(result.Session, result.Candidate)
		return nil
	},
}

func init() {
	startCmd.Flags().StringVar(&startGoodID, "good", "", "Known-good snapshot id (required)")
	startCmd.Flags().StringVar(&startBadID, "bad", "", "Known-bad snapshot id (required)")
	_ = startCmd.MarkFlagRequired("good")
	_ = startCmd.MarkFlagRequired("bad")
}
