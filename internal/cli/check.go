package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkgbisect/pkgbisect/internal/engine"
)

var checkCommand string

var checkCmd = &cobra.Command{
	Use:   "check [--command CMD]",
	Short: "Run the test command and report pass/fail",
	Long: `Run a shell command that probes for the regression and report whether it
passed (exit zero). Defaults to the test_command from config.yaml.

A passing check suggests 'pkgbisect good', a failing one 'pkgbisect bad'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cfg, err := newEngine()
		if err != nil {
			return err
		}

		command := checkCommand
		if command == "" {
			command = cfg.TestCommand
		}

		result, err := eng.Check(context.Background(), &engine.CheckRequest{Command: command})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if result.Passed {
			PrintSuccess(fmt.Sprintf("Passed: %s", result.Command))
			PrintInfo("  If the current test state is applied, report: pkgbisect good")
		} else {
			PrintWarning(fmt.Sprintf("Failed: %s", result.Command))
			PrintInfo("  If the current test state is applied, report: pkgbisect bad")
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkCommand, "command", "c", "", "Shell command to run (default: test_command from config)")
}
