package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/setup-tuner/internal/replay"
)

var replayFixture string

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded session fixture and compare outputs",
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayFixture, "fixture", "", "path to fixture JSON")
	_ = replayCmd.MarkFlagRequired("fixture")
}

func runReplay(cmd *cobra.Command, args []string) error {
	fixture, err := replay.LoadFixture(replayFixture)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Fixture: %s\n", fixture.Description)

	results := replay.Replay(fixture.Driver.ToDriver(), fixture.ToLaps())
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "  %-8s error: %v\n", r.RoundID, r.Err)
			continue
		}
		fmt.Fprintf(out, "  %-8s gate=%-6s eval=%-5t zone=%d/%d\n",
			r.RoundID, r.Gate.Action, r.Eval.Passed, r.Response.Zone.Total, r.Response.Zone.Half)
	}

	summary := replay.Summarize(results)
	fmt.Fprintf(out, "\nRounds: %d | Flagged: %d | Eval fails: %d | Errors: %d | Converged: %v\n",
		summary.TotalRounds, summary.Flagged, summary.EvalFails, summary.Errors, summary.Converged)

	mismatches := replay.Compare(results, fixture.ExpectedResults)
	if len(mismatches) == 0 {
		fmt.Fprintln(out, "All expectations matched.")
		return nil
	}
	fmt.Fprintf(out, "\n%d mismatch(es):\n", len(mismatches))
	for _, m := range mismatches {
		fmt.Fprintf(out, "  %s\n", m)
	}
	return errMismatch
}
