package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgbisect/pkgbisect/internal/bisect"
	"github.com/pkgbisect/pkgbisect/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status [session-id]",
	Short: "Show the state of a bisection session",
	Long:  `Display bounds, progress and verdict history of a session (default: current).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}

		req := &engine.StatusRequest{}
		if len(args) > 0 {
			req.SessionID = args[0]
		}

		result, err := eng.Status(context.Background(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		s := result.Session
		PrintSection(fmt.Sprintf("Session %s", s.ID))
		PrintLabelValue("State", string(s.State))
		PrintLabelValue("Snapshots", fmt.Sprintf("%s (good) -> %s (bad)",
			s.Delta.GoodSnapshotID, s.Delta.BadSnapshotID))
		PrintLabelValue("Package changes", fmt.Sprintf("%d", s.Delta.Len()))
		PrintLabelValue("Suspect range", fmt.Sprintf("[%d, %d]", s.LowerBound, s.UpperBound))
		PrintLabelValue("Verdicts recorded", fmt.Sprintf("%d", s.StepsTaken()))

		switch s.State {
		case bisect.StateActive:
			PrintLabelValue("Verdicts remaining", fmt.Sprintf("at most %d", s.RemainingSteps()))
			printCandidate(s, result.Candidate)
		case bisect.StateFound:
			printCulprit(result.Culprit, nil)
		}

		if len(s.History) > 0 {
			fmt.Println()
			rows := make([][]string, 0, len(s.History))
			for i, step := range s.History {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					string(step.Verdict),
					fmt.Sprintf("%d", step.Mid),
					step.RecordedAt.Format("2006-01-02 15:04:05"),
				})
			}
			PrintTable([]string{"#", "Verdict", "Mid", "Recorded"}, rows)
		}
		return nil
	},
}
