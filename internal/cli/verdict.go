package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgbisect/pkgbisect/internal/bisect"
	"github.com/pkgbisect/pkgbisect/internal/engine"
)

var goodCmd = &cobra.Command{
	Use:   "good [session-id]",
	Short: "Report that the current test state works",
	Long: `Record a good verdict on the session: the issue is absent with the current
changes applied, so the suspects under test are exonerated and the culprit
lies in the rest of the suspect range.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerdict(args, bisect.VerdictGood)
	},
}

var badCmd = &cobra.Command{
	Use:   "bad [session-id]",
	Short: "Report that the current test state is broken",
	Long: `Record a bad verdict on the session: the issue is present with the current
changes applied, so the culprit lies within the suspects under test.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerdict(args, bisect.VerdictBad)
	},
}

func runVerdict(args []string, verdict bisect.Verdict) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}

	req := &engine.VerdictRequest{Verdict: verdict}
	if len(args) > 0 {
		req.SessionID = args[0]
	}

	result, err := eng.Verdict(context.Background(), req)
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(result)
	}

	PrintSuccess(fmt.Sprintf("Recorded %s verdict on session %s", verdict, result.Session.ID))

	switch result.Session.State {
	case bisect.StateFound:
		printCulprit(result.Culprit, result.Remedies)
	case bisect.StateAbandoned:
		PrintWarning("Search space exhausted: every remaining candidate tested good.")
		PrintInfo("  The reported verdicts are inconsistent with a single culprit;")
		PrintInfo("  the session has been abandoned.")
	default:
		printCandidate(result.Session, result.Candidate)
		if result.Plan != nil && result.Plan.Noops() > 0 {
			fmt.Println()
			PrintInfo(fmt.Sprintf("  %s unchanged from the previous step.",
				PrintCount(result.Plan.Noops(), "package is", "packages are")))
		}
	}
	return nil
}
